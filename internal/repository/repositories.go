package repository

import (
	"time"

	"storefront-service/internal/domain"
)

// OrderFilter narrows owner-scoped and admin order listings.
type OrderFilter struct {
	OwnerAccountID string
	Status         domain.OrderStatus
	From           *time.Time
	To             *time.Time
}

type OrderRepository interface {
	Save(order *domain.Order) error
	FindByID(id uint64) (*domain.Order, error)
	FindByOwner(ownerID string) ([]domain.Order, error)
	List(filter OrderFilter) ([]domain.Order, error)
	UpdateStatus(id uint64, status domain.OrderStatus) error
}

type ProfileRepository interface {
	Upsert(profile *domain.Profile) error
	FindByAccountID(accountID string) (*domain.Profile, error)
}

type RoleRepository interface {
	RoleOf(accountID string) (domain.Role, error)
	Assign(accountID string, role domain.Role) error
}
