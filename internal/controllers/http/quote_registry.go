package http

import (
	"sync"
	"sync/atomic"
	"time"

	"storefront-service/internal/services"
)

// quoteTrackerTTL bounds how long an idle session keeps its tracker.
const quoteTrackerTTL = 30 * time.Minute

type trackerEntry struct {
	tracker  *services.QuoteTracker
	lastSeen atomic.Int64
}

// quoteTrackerRegistry hands out one QuoteTracker per session and drops
// entries for sessions idle past quoteTrackerTTL, so abandoned sessions
// do not accumulate trackers forever.
type quoteTrackerRegistry struct {
	entries sync.Map
	hits    atomic.Uint32
}

func (r *quoteTrackerRegistry) get(sessionID string, now time.Time) *services.QuoteTracker {
	v, _ := r.entries.LoadOrStore(sessionID, &trackerEntry{tracker: services.NewQuoteTracker()})
	e := v.(*trackerEntry)
	e.lastSeen.Store(now.UnixNano())

	// Amortized sweep instead of a background goroutine.
	if r.hits.Add(1)%256 == 0 {
		r.sweep(now)
	}
	return e.tracker
}

func (r *quoteTrackerRegistry) sweep(now time.Time) {
	cutoff := now.Add(-quoteTrackerTTL).UnixNano()
	r.entries.Range(func(key, value any) bool {
		if value.(*trackerEntry).lastSeen.Load() < cutoff {
			r.entries.Delete(key)
		}
		return true
	})
}
