package domain

import "time"

type OrderCreatedEvent struct {
	OrderID        uint64         `json:"orderId"`
	OwnerAccountID string         `json:"ownerAccountId"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	Total          float64        `json:"total"`
	Status         OrderStatus    `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type OrderStatusUpdatedEvent struct {
	OrderID   uint64      `json:"orderId"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
