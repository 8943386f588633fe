package services

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest(store infra.CartStore) (*CartService, *mocks.MockMenuClient) {
	mockMenu := new(mocks.MockMenuClient)
	return NewCartService(store, NewMenuService(mockMenu)), mockMenu
}

func productInfo(id uint64, name string, price float64) *infra.ProductInfo {
	return &infra.ProductInfo{ID: id, Name: name, Price: price, Available: true}
}

func TestCartService_AddMergesIdenticalSelections(t *testing.T) {
	store := newFakeCartStore()
	svc, mockMenu := newCartServiceForTest(store)
	mockMenu.On("GetProductByID", mock.Anything, uint64(1)).Return(productInfo(1, "Burger", 7.99), nil)

	opts := map[string][]string{"extras": {"cheese", "bacon"}}

	_, err := svc.Add(context.Background(), testSessionID, 1, 2, opts)
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), testSessionID, 1, 3, opts)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, domain.RoundCents(7.99*5), cart.Lines[0].LineTotal)
}

func TestCartService_AddKeepsDistinctSelectionsApart(t *testing.T) {
	store := newFakeCartStore()
	svc, mockMenu := newCartServiceForTest(store)
	mockMenu.On("GetProductByID", mock.Anything, uint64(1)).Return(productInfo(1, "Burger", 7.99), nil)

	_, err := svc.Add(context.Background(), testSessionID, 1, 1, map[string][]string{"extras": {"cheese"}})
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), testSessionID, 1, 1, map[string][]string{"extras": {"bacon"}})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.NotEqual(t, cart.Lines[0].ID, cart.Lines[1].ID)
}

func TestCartService_SubtotalIsOrderIndependent(t *testing.T) {
	prices := map[uint64]float64{1: 7.99, 2: 12.50, 3: 3.25}

	buildCart := func(order []uint64) *domain.Cart {
		store := newFakeCartStore()
		svc, mockMenu := newCartServiceForTest(store)
		for id, price := range prices {
			mockMenu.On("GetProductByID", mock.Anything, id).Return(productInfo(id, "Item", price), nil)
		}
		var cart *domain.Cart
		for _, id := range order {
			var err error
			cart, err = svc.Add(context.Background(), testSessionID, id, 2, nil)
			require.NoError(t, err)
		}
		return cart
	}

	a := buildCart([]uint64{1, 2, 3})
	b := buildCart([]uint64{3, 1, 2})

	want := domain.RoundCents(2 * (7.99 + 12.50 + 3.25))
	assert.Equal(t, want, a.Subtotal())
	assert.Equal(t, want, b.Subtotal())
}

func TestCartService_EmptyCartSubtotalIsZero(t *testing.T) {
	store := newFakeCartStore()
	svc, _ := newCartServiceForTest(store)

	cart := svc.Get(context.Background(), testSessionID)
	assert.Equal(t, 0.0, cart.Subtotal())
	assert.Equal(t, 0, cart.Count())
}

func TestCartService_SetQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{name: "valid quantity is applied", quantity: 4, want: 4},
		{name: "zero is a no-op", quantity: 0, want: 2},
		{name: "negative is a no-op", quantity: -1, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeCartStore()
			svc, mockMenu := newCartServiceForTest(store)
			mockMenu.On("GetProductByID", mock.Anything, uint64(1)).Return(productInfo(1, "Burger", 7.99), nil)

			cart, err := svc.Add(context.Background(), testSessionID, 1, 2, nil)
			require.NoError(t, err)
			lineID := cart.Lines[0].ID

			cart = svc.SetQuantity(context.Background(), testSessionID, lineID, tt.quantity)

			require.Len(t, cart.Lines, 1)
			assert.Equal(t, tt.want, cart.Lines[0].Quantity)
			assert.Equal(t, domain.RoundCents(7.99*float64(tt.want)), cart.Lines[0].LineTotal)
		})
	}
}

func TestCartService_RemoveAndClearAlwaysSucceed(t *testing.T) {
	store := newFakeCartStore()
	svc, mockMenu := newCartServiceForTest(store)
	mockMenu.On("GetProductByID", mock.Anything, uint64(1)).Return(productInfo(1, "Burger", 7.99), nil)

	cart, err := svc.Add(context.Background(), testSessionID, 1, 1, nil)
	require.NoError(t, err)

	cart = svc.Remove(context.Background(), testSessionID, "no-such-line")
	assert.Len(t, cart.Lines, 1)

	cart = svc.Remove(context.Background(), testSessionID, cart.Lines[0].ID)
	assert.Len(t, cart.Lines, 0)

	svc.Clear(context.Background(), testSessionID)
	assert.Equal(t, 1, store.deletes)
}

func TestCartService_PersistFailureIsNonFatal(t *testing.T) {
	store := newFakeCartStore()
	store.saveErr = errors.New("redis: connection refused")
	svc, mockMenu := newCartServiceForTest(store)
	mockMenu.On("GetProductByID", mock.Anything, uint64(1)).Return(productInfo(1, "Burger", 7.99), nil)

	cart, err := svc.Add(context.Background(), testSessionID, 1, 2, nil)

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, store.saves)
}

func TestCartService_AddRejections(t *testing.T) {
	tests := []struct {
		name       string
		productID  uint64
		quantity   int
		setupMenu  func(*mocks.MockMenuClient)
		wantErr    error
		wantErrStr string
	}{
		{
			name:      "quantity below one",
			productID: 1,
			quantity:  0,
			setupMenu: func(m *mocks.MockMenuClient) {},
			wantErr:   ErrInvalidQuantity,
		},
		{
			name:      "unknown product",
			productID: 999,
			quantity:  1,
			setupMenu: func(m *mocks.MockMenuClient) {
				m.On("GetProductByID", mock.Anything, uint64(999)).Return(nil, nil)
			},
			wantErr: ErrProductNotFound,
		},
		{
			name:      "unavailable product",
			productID: 2,
			quantity:  1,
			setupMenu: func(m *mocks.MockMenuClient) {
				m.On("GetProductByID", mock.Anything, uint64(2)).Return(&infra.ProductInfo{ID: 2, Name: "Off menu", Price: 5, Available: false}, nil)
			},
			wantErr: ErrProductUnavailable,
		},
		{
			name:      "menu lookup failure",
			productID: 3,
			quantity:  1,
			setupMenu: func(m *mocks.MockMenuClient) {
				m.On("GetProductByID", mock.Anything, uint64(3)).Return(nil, errors.New("menu service returned status 500"))
			},
			wantErrStr: "menu service returned status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeCartStore()
			svc, mockMenu := newCartServiceForTest(store)
			tt.setupMenu(mockMenu)

			_, err := svc.Add(context.Background(), testSessionID, tt.productID, tt.quantity, nil)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Contains(t, err.Error(), tt.wantErrStr)
			}
			assert.Equal(t, 0, store.saves)
			mockMenu.AssertExpectations(t)
		})
	}
}
