package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCachedOrders(t *testing.T) {
	orders, ok := decodeCachedOrders([]byte(`[{"id":1,"total":21.98}]`))
	require.True(t, ok)
	require.Len(t, orders, 1)
	assert.Equal(t, uint64(1), orders[0].ID)
	assert.Equal(t, 21.98, orders[0].Total)

	_, ok = decodeCachedOrders([]byte(`{"truncated`))
	assert.False(t, ok)
}

func TestQuoteTrackerRegistry_SweepsIdleSessions(t *testing.T) {
	var reg quoteTrackerRegistry
	start := time.Now()

	stale := reg.get("session-stale", start)
	assert.Same(t, stale, reg.get("session-stale", start))

	fresh := reg.get("session-fresh", start.Add(29*time.Minute))

	reg.sweep(start.Add(31 * time.Minute))

	assert.Same(t, fresh, reg.get("session-fresh", start.Add(31*time.Minute)))
	assert.NotSame(t, stale, reg.get("session-stale", start.Add(31*time.Minute)))
}
