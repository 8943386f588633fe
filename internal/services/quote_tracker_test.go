package services

import (
	"testing"

	"storefront-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestQuoteTracker_StaleResultIsDiscarded(t *testing.T) {
	tracker := NewQuoteTracker()

	oldToken := tracker.Begin("delivery|Rua A, 1")
	newToken := tracker.Begin("delivery|Rua B, 2")

	newFee := 6.0
	assert.True(t, tracker.Apply(newToken, domain.FeeQuote{Fee: &newFee}))

	// The slower computation for the superseded address comes back late
	// and must not overwrite the newer quote.
	staleFee := 12.0
	assert.False(t, tracker.Apply(oldToken, domain.FeeQuote{Fee: &staleFee}))

	current := tracker.Current()
	assert.NotNil(t, current.Fee)
	assert.Equal(t, 6.0, *current.Fee)
}

func TestQuoteTracker_InvalidateSupersedesInFlightWork(t *testing.T) {
	tracker := NewQuoteTracker()

	token := tracker.Begin("delivery|Rua A, 1")

	// Method flips to pickup before the geocode returns: fee forced to 0.
	zero := 0.0
	tracker.Invalidate(domain.FeeQuote{Fee: &zero})

	lateFee := 8.0
	assert.False(t, tracker.Apply(token, domain.FeeQuote{Fee: &lateFee}))

	current := tracker.Current()
	assert.NotNil(t, current.Fee)
	assert.Equal(t, 0.0, *current.Fee)
}

func TestQuoteTracker_ClearedFieldRevertsToIndeterminate(t *testing.T) {
	tracker := NewQuoteTracker()

	fee := 6.0
	token := tracker.Begin("delivery|Rua A, 1")
	tracker.Apply(token, domain.FeeQuote{Fee: &fee})

	tracker.Invalidate(domain.FeeQuote{})

	assert.True(t, tracker.Current().Indeterminate())
}
