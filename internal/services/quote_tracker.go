package services

import (
	"sync"

	"storefront-service/internal/domain"
)

// QuoteTracker applies asynchronously computed fee quotes with
// last-write-wins semantics. Each recompute is keyed to the address
// snapshot that requested it; a result whose snapshot has been superseded
// is discarded instead of overwriting a newer quote.
type QuoteTracker struct {
	mu       sync.Mutex
	seq      uint64
	snapshot string
	current  domain.FeeQuote
}

func NewQuoteTracker() *QuoteTracker {
	return &QuoteTracker{}
}

// Begin registers a new snapshot and returns the token the eventual
// result must present to be applied.
func (t *QuoteTracker) Begin(snapshot string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.snapshot = snapshot
	return t.seq
}

// Apply installs a quote if its token is still current. Returns false for
// stale results.
func (t *QuoteTracker) Apply(token uint64, quote domain.FeeQuote) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.seq {
		return false
	}
	t.current = quote
	return true
}

// Invalidate replaces the current quote immediately and supersedes every
// in-flight computation. Used when the method flips to pickup (force fee 0)
// or a required field is cleared (revert to indeterminate).
func (t *QuoteTracker) Invalidate(quote domain.FeeQuote) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.snapshot = ""
	t.current = quote
}

func (t *QuoteTracker) Current() domain.FeeQuote {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
