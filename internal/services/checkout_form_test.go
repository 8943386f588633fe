package services

import (
	"testing"

	"storefront-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDeliveryMethod(t *testing.T) {
	tests := []struct {
		name      string
		delivery  bool
		pickup    bool
		requested domain.DeliveryMethod
		want      domain.DeliveryMethod
		wantErr   error
	}{
		{name: "both enabled defaults to delivery", delivery: true, pickup: true, requested: "", want: domain.MethodDelivery},
		{name: "both enabled honors pickup", delivery: true, pickup: true, requested: domain.MethodPickup, want: domain.MethodPickup},
		{name: "both enabled honors delivery", delivery: true, pickup: true, requested: domain.MethodDelivery, want: domain.MethodDelivery},
		{name: "delivery disabled forces pickup", delivery: false, pickup: true, requested: domain.MethodDelivery, want: domain.MethodPickup},
		{name: "pickup disabled forces delivery", delivery: true, pickup: false, requested: domain.MethodPickup, want: domain.MethodDelivery},
		{name: "nothing enabled fails", delivery: false, pickup: false, requested: domain.MethodDelivery, wantErr: ErrNoFulfillmentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.StoreConfig{DeliveryEnabled: tt.delivery, PickupEnabled: tt.pickup}

			got, err := ResolveDeliveryMethod(cfg, tt.requested)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPaymentMethod(t *testing.T) {
	assert.Equal(t, domain.PaymentCash, DefaultPaymentMethod(domain.MethodPickup))
	assert.Equal(t, domain.PaymentPix, DefaultPaymentMethod(domain.MethodDelivery))
}

func TestPaymentMethodAllowed(t *testing.T) {
	assert.True(t, PaymentMethodAllowed(domain.MethodDelivery, domain.PaymentExternalRedirect))
	assert.False(t, PaymentMethodAllowed(domain.MethodPickup, domain.PaymentExternalRedirect))
	assert.True(t, PaymentMethodAllowed(domain.MethodPickup, domain.PaymentCash))
	assert.True(t, PaymentMethodAllowed(domain.MethodDelivery, domain.PaymentPix))
}

func TestNormalizeDraft_ResetsPaymentWhenBranchChanges(t *testing.T) {
	// The draft carried redirect payment from the delivery branch, but the
	// store only offers pickup: the method is forced and the payment falls
	// back to the branch default.
	cfg := domain.StoreConfig{DeliveryEnabled: false, PickupEnabled: true}
	draft := testDraft(domain.MethodDelivery, domain.PaymentExternalRedirect)

	got, err := NormalizeDraft(cfg, draft)

	require.NoError(t, err)
	assert.Equal(t, domain.MethodPickup, got.DeliveryMethod)
	assert.Equal(t, domain.PaymentCash, got.PaymentMethod)
}

func TestNormalizeDraft_KeepsValidSelection(t *testing.T) {
	got, err := NormalizeDraft(testStoreConfig(), testDraft(domain.MethodDelivery, domain.PaymentCreditCard))

	require.NoError(t, err)
	assert.Equal(t, domain.MethodDelivery, got.DeliveryMethod)
	assert.Equal(t, domain.PaymentCreditCard, got.PaymentMethod)
}

func TestValidateDraft(t *testing.T) {
	fieldsOf := func(errs []FieldError) []string {
		var out []string
		for _, e := range errs {
			out = append(out, e.Field)
		}
		return out
	}

	tests := []struct {
		name       string
		mutate     func(*domain.CheckoutDraft)
		wantFields []string
	}{
		{
			name:   "complete delivery draft passes",
			mutate: func(d *domain.CheckoutDraft) {},
		},
		{
			name: "contact fields always required",
			mutate: func(d *domain.CheckoutDraft) {
				d.Name = ""
				d.Phone = ""
			},
			wantFields: []string{"name", "phone"},
		},
		{
			name: "malformed email",
			mutate: func(d *domain.CheckoutDraft) {
				d.Email = "not-an-email"
			},
			wantFields: []string{"email"},
		},
		{
			name: "address required under delivery",
			mutate: func(d *domain.CheckoutDraft) {
				d.Address = domain.Address{}
			},
			wantFields: []string{"street", "number", "neighborhood", "city", "postalCode"},
		},
		{
			name: "address not required under pickup",
			mutate: func(d *domain.CheckoutDraft) {
				d.DeliveryMethod = domain.MethodPickup
				d.Address = domain.Address{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := testDraft(domain.MethodDelivery, domain.PaymentPix)
			tt.mutate(&draft)

			errs := ValidateDraft(draft)

			assert.ElementsMatch(t, tt.wantFields, fieldsOf(errs))
		})
	}
}
