package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
)

// fakeCartStore is an in-memory CartStore for service tests. Error fields
// let tests simulate a failing persistence layer.
type fakeCartStore struct {
	carts   map[string]*domain.Cart
	loadErr error
	saveErr error
	delErr  error
	saves   int
	deletes int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*domain.Cart{}}
}

var _ infra.CartStore = (*fakeCartStore)(nil)

func (s *fakeCartStore) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	cart, ok := s.carts[sessionID]
	if !ok {
		return &domain.Cart{}, nil
	}
	return cart, nil
}

func (s *fakeCartStore) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.carts[sessionID] = cart
	return nil
}

func (s *fakeCartStore) Delete(ctx context.Context, sessionID string) error {
	s.deletes++
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.carts, sessionID)
	return nil
}

const (
	testSessionID = "session-1"
	testAccountID = "acct-1"
)

func testStoreConfig() domain.StoreConfig {
	return domain.StoreConfig{
		DeliveryEnabled: true,
		PickupEnabled:   true,
		Origin:          &domain.Coordinates{Lat: 0, Lng: 0},
		FeeTable:        domain.DefaultFeeTable(),
		Currency:        "BRL",
	}
}

func testAddress() domain.Address {
	return domain.Address{
		Street:       "Rua das Flores",
		Number:       "100",
		Neighborhood: "Centro",
		City:         "Curitiba",
		PostalCode:   "80000-000",
	}
}

func testDraft(method domain.DeliveryMethod, payment domain.PaymentMethod) domain.CheckoutDraft {
	draft := domain.CheckoutDraft{
		Name:           "Maria Silva",
		Email:          "maria@example.com",
		Phone:          "+55 41 99999-0000",
		DeliveryMethod: method,
		PaymentMethod:  payment,
	}
	if method == domain.MethodDelivery {
		draft.Address = testAddress()
	}
	return draft
}

func cartWithLine(unitPrice float64, quantity int) *domain.Cart {
	line := domain.CartLine{
		ID:        "line-1",
		ProductID: 1,
		Name:      "Test Item",
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
	line.Recalculate()
	return &domain.Cart{Lines: []domain.CartLine{line}}
}
