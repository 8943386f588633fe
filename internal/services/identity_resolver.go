package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

// ErrIdentityUnavailable is the single user-facing error raised when both
// sign-up attempts fail. No order is created in that case.
var ErrIdentityUnavailable = errors.New("could not process your order")

// placeholderDomain is reserved for generated guest addresses; nothing is
// ever delivered to it.
const placeholderDomain = "guest.orders.internal"

// Resolution is the tagged outcome of guest account creation. Substituted
// means the customer's email was rejected and a placeholder was used; the
// typed address is kept on the profile for support staff.
type Resolution struct {
	Account       domain.Account
	Substituted   bool
	OriginalEmail string
}

// IdentityResolver guarantees an order has an owning account.
type IdentityResolver interface {
	EnsureAccount(ctx context.Context, draft domain.CheckoutDraft) (*Resolution, error)
}

type GuestIdentityResolver struct {
	identity infra.IdentityClientInterface
	profiles repository.ProfileRepository
}

func NewGuestIdentityResolver(identity infra.IdentityClientInterface, profiles repository.ProfileRepository) *GuestIdentityResolver {
	return &GuestIdentityResolver{identity: identity, profiles: profiles}
}

var _ IdentityResolver = (*GuestIdentityResolver)(nil)

// EnsureAccount creates an identity for an unauthenticated checkout.
// First attempt uses the customer's email with a random password; any
// failure (duplicate, invalid format, provider rejection) triggers exactly
// one retry with a generated placeholder address. A second failure aborts
// the whole submission.
func (r *GuestIdentityResolver) EnsureAccount(ctx context.Context, draft domain.CheckoutDraft) (*Resolution, error) {
	attrs := map[string]string{
		"name":  draft.Name,
		"phone": draft.Phone,
	}

	account, err := r.identity.SignUp(ctx, draft.Email, randomPassword(), attrs)
	if err == nil {
		res := &Resolution{Account: *account}
		r.upsertProfile(draft, res)
		return res, nil
	}
	log.Printf("identity: sign-up with customer email failed: %v", err)

	placeholder := placeholderEmail()
	account, err = r.identity.SignUp(ctx, placeholder, randomPassword(), attrs)
	if err != nil {
		log.Printf("identity: fallback sign-up failed: %v", err)
		return nil, ErrIdentityUnavailable
	}

	res := &Resolution{
		Account:       *account,
		Substituted:   true,
		OriginalEmail: draft.Email,
	}
	r.upsertProfile(draft, res)
	return res, nil
}

// upsertProfile records the customer's details against the new identity.
// This is a secondary effect: failure is logged and does not abort.
func (r *GuestIdentityResolver) upsertProfile(draft domain.CheckoutDraft, res *Resolution) {
	profile := &domain.Profile{
		AccountID:    res.Account.ID,
		Name:         draft.Name,
		Email:        res.Account.Email,
		Phone:        draft.Phone,
		Street:       draft.Address.Street,
		Number:       draft.Address.Number,
		Complement:   draft.Address.Complement,
		Neighborhood: draft.Address.Neighborhood,
		City:         draft.Address.City,
		PostalCode:   draft.Address.PostalCode,
	}
	if res.Substituted {
		profile.CorrectedEmail = res.OriginalEmail
		profile.EmailCorrected = true
	}

	if err := r.profiles.Upsert(profile); err != nil {
		log.Printf("identity: profile upsert failed for account %s: %v", res.Account.ID, err)
	}
}

func randomPassword() string {
	return uuid.NewString()
}

func placeholderEmail() string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("guest-%d-%s@%s", time.Now().Unix(), suffix, placeholderDomain)
}
