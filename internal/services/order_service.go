package services

import (
	"context"
	"errors"
	"log"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrForbidden         = errors.New("not allowed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAwaiting       = errors.New("order is not awaiting payment")
)

// OrderService covers the post-checkout surface: customer-facing tracking,
// payment confirmation, and the admin-controlled status updates.
type OrderService struct {
	orders    repository.OrderRepository
	roles     repository.RoleRepository
	payment   infra.PaymentClientInterface
	publisher rabbit.PublisherInterface
}

func NewOrderService(
	orders repository.OrderRepository,
	roles repository.RoleRepository,
	payment infra.PaymentClientInterface,
	publisher rabbit.PublisherInterface,
) *OrderService {
	return &OrderService{
		orders:    orders,
		roles:     roles,
		payment:   payment,
		publisher: publisher,
	}
}

// GetOrder returns an order visible to the given account: its owner, or
// any admin.
func (s *OrderService) GetOrder(ctx context.Context, accountID string, orderID uint64) (*domain.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.OwnerAccountID != accountID {
		role, err := s.roles.RoleOf(accountID)
		if err != nil || role != domain.RoleAdmin {
			return nil, ErrForbidden
		}
	}
	return order, nil
}

// ListOwnOrders returns the account's orders, newest first.
func (s *OrderService) ListOwnOrders(ctx context.Context, accountID string) ([]domain.Order, error) {
	return s.orders.FindByOwner(accountID)
}

// ListOrders is the admin listing with status and date-range filters.
func (s *OrderService) ListOrders(ctx context.Context, actorID string, filter repository.OrderFilter) ([]domain.Order, error) {
	if err := s.RequireAdmin(actorID); err != nil {
		return nil, err
	}
	return s.orders.List(filter)
}

// UpdateStatus moves an order through the admin-controlled status set.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID string, orderID uint64, to domain.OrderStatus) (*domain.Order, error) {
	if err := s.RequireAdmin(actorID); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !domain.CanTransition(order.Status, to) {
		return nil, ErrInvalidTransition
	}

	from := order.Status
	if err := s.orders.UpdateStatus(orderID, to); err != nil {
		return nil, err
	}
	order.Status = to

	go s.publishStatusUpdated(context.Background(), orderID, from, to)
	return order, nil
}

// ConfirmPayment checks a redirect payment's status with the provider and
// moves the order from awaiting_payment to pending once it is paid.
func (s *OrderService) ConfirmPayment(ctx context.Context, accountID string, orderID uint64) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusAwaitingPayment || order.PaymentRef == "" {
		return nil, ErrNotAwaiting
	}

	status, err := s.payment.CheckStatus(ctx, order.PaymentRef)
	if err != nil {
		return nil, err
	}
	if status != "paid" {
		return order, nil
	}

	if err := s.orders.UpdateStatus(orderID, domain.StatusPending); err != nil {
		return nil, err
	}
	from := order.Status
	order.Status = domain.StatusPending

	go s.publishStatusUpdated(context.Background(), orderID, from, domain.StatusPending)
	return order, nil
}

// RequireAdmin consults the role collaborator to gate the admin surface.
func (s *OrderService) RequireAdmin(accountID string) error {
	role, err := s.roles.RoleOf(accountID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *OrderService) publishStatusUpdated(ctx context.Context, orderID uint64, from, to domain.OrderStatus) {
	evt := domain.OrderStatusUpdatedEvent{
		OrderID:   orderID,
		From:      from,
		To:        to,
		UpdatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, "order.status_updated", evt); err != nil {
		log.Printf("orders: failed to publish order.status_updated for order %d: %v", orderID, err)
	}
}
