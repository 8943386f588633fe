package infra

import (
	"context"

	"storefront-service/internal/domain"
)

type GeocodeClientInterface interface {
	Geocode(ctx context.Context, addressText string) (*domain.Coordinates, error)
}

type IdentityClientInterface interface {
	SignUp(ctx context.Context, email, password string, attrs map[string]string) (*domain.Account, error)
	SignIn(ctx context.Context, email, password string) (*domain.Account, error)
	GetSession(ctx context.Context, token string) (*domain.Account, error)
	SignOut(ctx context.Context, token string) error
}

type PaymentClientInterface interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error)
	CheckStatus(ctx context.Context, intentID string) (string, error)
}

type MenuClientInterface interface {
	GetProductByID(ctx context.Context, id uint64) (*ProductInfo, error)
}

// CartStore is the persistence port the cart aggregator writes through.
// Implementations must not be required for reads of an empty cart: a
// missing key loads as an empty cart, not an error.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var _ GeocodeClientInterface = (*GeocodeClient)(nil)
var _ IdentityClientInterface = (*IdentityClient)(nil)
var _ PaymentClientInterface = (*PaymentClient)(nil)
var _ MenuClientInterface = (*MenuClient)(nil)
