package services

import (
	"errors"
	"net/mail"

	"storefront-service/internal/domain"
)

// ErrNoFulfillmentMethod means the store has both delivery and pickup
// disabled; checkout cannot proceed at all.
var ErrNoFulfillmentMethod = errors.New("store has no fulfillment method enabled")

// ResolveDeliveryMethod maps the customer's selection onto what the store
// configuration permits: a disallowed selection is forced to the only
// enabled method, and an empty selection defaults to delivery when both
// are enabled.
func ResolveDeliveryMethod(cfg domain.StoreConfig, requested domain.DeliveryMethod) (domain.DeliveryMethod, error) {
	switch {
	case !cfg.DeliveryEnabled && !cfg.PickupEnabled:
		return "", ErrNoFulfillmentMethod
	case cfg.DeliveryEnabled && !cfg.PickupEnabled:
		return domain.MethodDelivery, nil
	case !cfg.DeliveryEnabled && cfg.PickupEnabled:
		return domain.MethodPickup, nil
	}

	if requested == domain.MethodPickup {
		return domain.MethodPickup, nil
	}
	return domain.MethodDelivery, nil
}

// AllowedPaymentMethods returns the payment methods valid for a delivery
// branch. Redirect payment needs a delivery address to settle against, so
// pickup excludes it.
func AllowedPaymentMethods(method domain.DeliveryMethod) []domain.PaymentMethod {
	if method == domain.MethodPickup {
		return []domain.PaymentMethod{
			domain.PaymentCash,
			domain.PaymentCreditCard,
			domain.PaymentDebitCard,
			domain.PaymentPix,
		}
	}
	return []domain.PaymentMethod{
		domain.PaymentPix,
		domain.PaymentCash,
		domain.PaymentCreditCard,
		domain.PaymentDebitCard,
		domain.PaymentExternalRedirect,
	}
}

// DefaultPaymentMethod is the reset value when the delivery method
// changes: cash at the counter for pickup, pix for delivery.
func DefaultPaymentMethod(method domain.DeliveryMethod) domain.PaymentMethod {
	if method == domain.MethodPickup {
		return domain.PaymentCash
	}
	return domain.PaymentPix
}

func PaymentMethodAllowed(method domain.DeliveryMethod, payment domain.PaymentMethod) bool {
	for _, m := range AllowedPaymentMethods(method) {
		if m == payment {
			return true
		}
	}
	return false
}

// NormalizeDraft recomputes the derived fields of a draft as a pure
// function of (config, selection): the delivery method is forced into the
// enabled set and an out-of-branch payment method falls back to the
// branch default.
func NormalizeDraft(cfg domain.StoreConfig, draft domain.CheckoutDraft) (domain.CheckoutDraft, error) {
	method, err := ResolveDeliveryMethod(cfg, draft.DeliveryMethod)
	if err != nil {
		return draft, err
	}
	draft.DeliveryMethod = method

	if draft.PaymentMethod == "" || !PaymentMethodAllowed(method, draft.PaymentMethod) {
		draft.PaymentMethod = DefaultPaymentMethod(method)
	}
	return draft, nil
}

// FieldError is a field-scoped validation failure, surfaced inline by the
// client. These never reach the order materializer.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateDraft checks the always-required contact fields and, under
// delivery, the address fields.
func ValidateDraft(draft domain.CheckoutDraft) []FieldError {
	var errs []FieldError

	if draft.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if draft.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	} else if _, err := mail.ParseAddress(draft.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}
	if draft.Phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "required"})
	}

	if draft.DeliveryMethod == domain.MethodDelivery {
		addr := draft.Address
		for _, f := range []struct {
			name  string
			value string
		}{
			{"street", addr.Street},
			{"number", addr.Number},
			{"neighborhood", addr.Neighborhood},
			{"city", addr.City},
			{"postalCode", addr.PostalCode},
		} {
			if f.value == "" {
				errs = append(errs, FieldError{Field: f.name, Message: "required"})
			}
		}
	}

	return errs
}
