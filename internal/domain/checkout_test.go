package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeTable_FeeFor(t *testing.T) {
	table := DefaultFeeTable()

	tests := []struct {
		distance float64
		wantFee  float64
		wantOK   bool
	}{
		{distance: 0.5, wantFee: 5.0, wantOK: true},
		{distance: 2.0, wantFee: 5.0, wantOK: true},
		{distance: 3.0, wantFee: 6.0, wantOK: true},
		{distance: 4.0, wantFee: 6.0, wantOK: true},
		{distance: 5.5, wantFee: 8.0, wantOK: true},
		{distance: 7.0, wantFee: 10.0, wantOK: true},
		{distance: 9.9, wantFee: 12.0, wantOK: true},
		{distance: 10.0, wantFee: 12.0, wantOK: true},
		{distance: 12.0, wantOK: false},
	}

	for _, tt := range tests {
		fee, ok := table.FeeFor(tt.distance)
		assert.Equal(t, tt.wantOK, ok, "distance %.1f", tt.distance)
		if tt.wantOK {
			assert.Equal(t, tt.wantFee, fee, "distance %.1f", tt.distance)
		}
	}
}

func TestSameSelection(t *testing.T) {
	a := map[string][]string{"extras": {"cheese", "bacon"}}
	b := map[string][]string{"extras": {"cheese", "bacon"}}
	c := map[string][]string{"extras": {"bacon", "cheese"}}

	assert.True(t, SameSelection(a, b))
	assert.False(t, SameSelection(a, c), "variation order is significant")
	assert.True(t, SameSelection(nil, nil))
	assert.False(t, SameSelection(a, nil))
}

func TestCartSubtotalNeverNegative(t *testing.T) {
	cart := Cart{}
	assert.Equal(t, 0.0, cart.Subtotal())
}

func TestAddressComplete(t *testing.T) {
	addr := Address{Street: "Rua A", Number: "1", Neighborhood: "Centro", City: "Curitiba", PostalCode: "80000-000"}
	assert.True(t, addr.Complete())

	addr.PostalCode = ""
	assert.False(t, addr.Complete())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusAwaitingPayment, StatusPending))
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPreparing, StatusReadyForPickup))
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusPending))
	assert.False(t, CanTransition(StatusCanceled, StatusPending))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 21.98, RoundCents(15.98+6.0))
	assert.Equal(t, 0.1, RoundCents(0.1+0.000000001))
	assert.Equal(t, 2.35, RoundCents(2.345000001))
}
