package domain

import "time"

type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusPending         OrderStatus = "pending"
	StatusConfirmed       OrderStatus = "confirmed"
	StatusPreparing       OrderStatus = "preparing"
	StatusOutForDelivery  OrderStatus = "out_for_delivery"
	StatusReadyForPickup  OrderStatus = "ready_for_pickup"
	StatusCompleted       OrderStatus = "completed"
	StatusCanceled        OrderStatus = "canceled"
)

// nextStatuses is the admin-controlled transition set. awaiting_payment
// moves to pending when the payment provider confirms the intent.
var nextStatuses = map[OrderStatus][]OrderStatus{
	StatusAwaitingPayment: {StatusPending, StatusCanceled},
	StatusPending:         {StatusConfirmed, StatusCanceled},
	StatusConfirmed:       {StatusPreparing, StatusCanceled},
	StatusPreparing:       {StatusOutForDelivery, StatusReadyForPickup, StatusCanceled},
	StatusOutForDelivery:  {StatusCompleted, StatusCanceled},
	StatusReadyForPickup:  {StatusCompleted, StatusCanceled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range nextStatuses[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderItem is a cart line normalized into its persisted shape.
// SelectedOptions is stored as the JSON encoding of the cart line's map.
type OrderItem struct {
	ID              uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         uint64  `json:"-" gorm:"not null;index"`
	ProductID       uint64  `json:"productId" gorm:"not null"`
	Name            string  `json:"name" gorm:"not null"`
	UnitPrice       float64 `json:"unitPrice" gorm:"not null"`
	Quantity        int     `json:"quantity" gorm:"not null"`
	LineTotal       float64 `json:"lineTotal" gorm:"not null"`
	SelectedOptions string  `json:"selectedOptions,omitempty" gorm:"type:text"`
}

type Order struct {
	ID             uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerAccountID string         `json:"ownerAccountId" gorm:"not null;index"`
	Items          []OrderItem    `json:"items" gorm:"foreignKey:OrderID"`
	CustomerName   string         `json:"customerName" gorm:"not null"`
	CustomerPhone  string         `json:"customerPhone"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod" gorm:"type:varchar(16);not null"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod" gorm:"type:varchar(32);not null"`
	Street         string         `json:"street"`
	Number         string         `json:"number"`
	Complement     string         `json:"complement"`
	Neighborhood   string         `json:"neighborhood"`
	City           string         `json:"city"`
	PostalCode     string         `json:"postalCode"`
	Notes          string         `json:"notes"`
	Subtotal       float64        `json:"subtotal" gorm:"not null"`
	DeliveryFee    float64        `json:"deliveryFee" gorm:"not null"`
	Total          float64        `json:"total" gorm:"not null"`
	Status         OrderStatus    `json:"status" gorm:"type:varchar(32);default:'pending';index"`
	PaymentRef     string         `json:"paymentReference,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}
