package http

import "storefront-service/internal/domain"

type AddItemRequest struct {
	ProductID uint64              `json:"productId" binding:"required"`
	Quantity  int                 `json:"quantity" binding:"required,min=1"`
	Options   map[string][]string `json:"selectedOptions"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type QuoteRequest struct {
	DeliveryMethod domain.DeliveryMethod `json:"deliveryMethod" binding:"required,oneof=delivery pickup"`
	Address        domain.Address        `json:"address"`
}

type CheckoutRequest struct {
	Name           string                `json:"name" binding:"required"`
	Email          string                `json:"email" binding:"required"`
	Phone          string                `json:"phone" binding:"required"`
	DeliveryMethod domain.DeliveryMethod `json:"deliveryMethod" binding:"required,oneof=delivery pickup"`
	PaymentMethod  domain.PaymentMethod  `json:"paymentMethod"`
	Address        domain.Address        `json:"address"`
	Notes          string                `json:"notes"`
}

func (r CheckoutRequest) toDraft() domain.CheckoutDraft {
	return domain.CheckoutDraft{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		DeliveryMethod: r.DeliveryMethod,
		PaymentMethod:  r.PaymentMethod,
		Address:        r.Address,
		Notes:          r.Notes,
	}
}

type CheckoutResponse struct {
	Order       *domain.Order `json:"order"`
	RedirectURL string        `json:"redirectUrl,omitempty"`
}

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}
