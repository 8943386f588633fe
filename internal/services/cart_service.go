package services

import (
	"context"
	"errors"
	"log"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// CartService is the session-keyed cart aggregator. Every mutation writes
// through the store port synchronously; a failed write is logged and the
// mutation still succeeds from the caller's point of view.
type CartService struct {
	store infra.CartStore
	menu  *MenuService
}

func NewCartService(store infra.CartStore, menu *MenuService) *CartService {
	return &CartService{store: store, menu: menu}
}

// Get loads the session's cart. A load failure degrades to an empty cart
// rather than breaking the browsing session.
func (s *CartService) Get(ctx context.Context, sessionID string) *domain.Cart {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		log.Printf("cart: load failed for session %s: %v", sessionID, err)
		return &domain.Cart{}
	}
	return cart
}

// Add puts a product in the cart. A line with the same product and
// byte-equal option selection is merged by incrementing its quantity;
// anything else becomes a new line. The unit price always comes from the
// menu lookup, never from the caller.
func (s *CartService) Add(ctx context.Context, sessionID string, productID uint64, quantity int, options map[string][]string) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.menu.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.Available {
		return nil, ErrProductUnavailable
	}

	cart := s.Get(ctx, sessionID)

	merged := false
	for i := range cart.Lines {
		line := &cart.Lines[i]
		if line.ProductID == productID && domain.SameSelection(line.SelectedOptions, options) {
			line.Quantity += quantity
			line.Recalculate()
			merged = true
			break
		}
	}

	if !merged {
		line := domain.CartLine{
			ID:              uuid.NewString(),
			ProductID:       productID,
			Name:            product.Name,
			UnitPrice:       product.Price,
			Quantity:        quantity,
			SelectedOptions: options,
		}
		line.Recalculate()
		cart.Lines = append(cart.Lines, line)
	}

	s.persist(ctx, sessionID, cart)
	return cart, nil
}

// SetQuantity updates a line's quantity. Quantities below 1 and unknown
// line ids are no-ops; the cart comes back unchanged.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, lineID string, quantity int) *domain.Cart {
	cart := s.Get(ctx, sessionID)
	if quantity < 1 {
		return cart
	}

	line := cart.FindLine(lineID)
	if line == nil {
		return cart
	}

	line.Quantity = quantity
	line.Recalculate()
	s.persist(ctx, sessionID, cart)
	return cart
}

// Remove drops a line from the cart. Removing an unknown id is not an error.
func (s *CartService) Remove(ctx context.Context, sessionID, lineID string) *domain.Cart {
	cart := s.Get(ctx, sessionID)
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			break
		}
	}
	s.persist(ctx, sessionID, cart)
	return cart
}

// Clear empties the session's cart. Always succeeds.
func (s *CartService) Clear(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		log.Printf("cart: clear failed for session %s: %v", sessionID, err)
	}
}

func (s *CartService) persist(ctx context.Context, sessionID string, cart *domain.Cart) {
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		log.Printf("cart: persist failed for session %s: %v", sessionID, err)
	}
}
