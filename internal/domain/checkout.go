package domain

import "strings"

type DeliveryMethod string

const (
	MethodDelivery DeliveryMethod = "delivery"
	MethodPickup   DeliveryMethod = "pickup"
)

type PaymentMethod string

const (
	PaymentCash             PaymentMethod = "cash"
	PaymentCreditCard       PaymentMethod = "credit_card"
	PaymentDebitCard        PaymentMethod = "debit_card"
	PaymentPix              PaymentMethod = "pix"
	PaymentExternalRedirect PaymentMethod = "external_redirect"
)

// Address holds the delivery destination. All five required fields must be
// present before a fee can be quoted; Complement is optional.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
}

// Complete reports whether every required field is filled in.
func (a Address) Complete() bool {
	return a.Street != "" && a.Number != "" && a.Neighborhood != "" &&
		a.City != "" && a.PostalCode != ""
}

// Line joins the address into the single string handed to the geocoder.
func (a Address) Line() string {
	parts := []string{a.Street, a.Number, a.Neighborhood, a.City, a.PostalCode}
	return strings.Join(parts, ", ")
}

// CheckoutDraft is the transient form state collected before submission.
type CheckoutDraft struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	Address        Address        `json:"address"`
	Notes          string         `json:"notes,omitempty"`
}

// BlockedReason distinguishes "address out of range" from "we could not
// compute": the first is fixed by a different address, the second may be
// transient.
type BlockedReason string

const (
	BlockedOutsideArea BlockedReason = "outside_service_area"
	BlockedCalcError   BlockedReason = "calculation_error"
)

// FeeQuote is the current delivery-fee computation for a draft address.
// A nil Fee with an empty BlockedReason means the quote is indeterminate:
// not yet computable, not an error.
type FeeQuote struct {
	DistanceKm    *float64      `json:"distanceKm,omitempty"`
	Fee           *float64      `json:"fee,omitempty"`
	BlockedReason BlockedReason `json:"blockedReason,omitempty"`
}

func (q FeeQuote) Blocked() bool       { return q.BlockedReason != "" }
func (q FeeQuote) Indeterminate() bool { return q.Fee == nil && q.BlockedReason == "" }

// ResolvedFee returns the quoted fee, or 0 when none is set.
func (q FeeQuote) ResolvedFee() float64 {
	if q.Fee == nil {
		return 0
	}
	return *q.Fee
}

// FeeBand maps distances up to MaxKm (inclusive) to a flat fee.
type FeeBand struct {
	MaxKm float64 `json:"maxKm"`
	Fee   float64 `json:"fee"`
}

// FeeTable is a monotonic step table of distance bands. Distances beyond
// the last band are outside the service area.
type FeeTable []FeeBand

// FeeFor returns the fee for a distance, or ok=false when the distance
// exceeds the service radius.
func (t FeeTable) FeeFor(distanceKm float64) (float64, bool) {
	for _, band := range t {
		if distanceKm <= band.MaxKm {
			return band.Fee, true
		}
	}
	return 0, false
}

// DefaultFeeTable mirrors the bands the store launched with; admins can
// replace it via store settings.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		{MaxKm: 2, Fee: 5.0},
		{MaxKm: 4, Fee: 6.0},
		{MaxKm: 6, Fee: 8.0},
		{MaxKm: 8, Fee: 10.0},
		{MaxKm: 10, Fee: 12.0},
	}
}

// Coordinates of the store, resolved once at setup time via the geocoder.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StoreConfig is the store-level settings consumed by the checkout flow.
// It is passed explicitly to the components that need it rather than held
// as ambient global state.
type StoreConfig struct {
	DeliveryEnabled bool         `json:"deliveryEnabled"`
	PickupEnabled   bool         `json:"pickupEnabled"`
	Origin          *Coordinates `json:"origin,omitempty"`
	FeeTable        FeeTable     `json:"feeTable"`
	Currency        string       `json:"currency"`
}
