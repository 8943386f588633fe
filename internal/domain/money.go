package domain

import "math"

// RoundCents normalizes a monetary amount to two decimal places.
// Every aggregation point (line totals, subtotals, order totals) goes
// through here so the stored total never drifts past cent precision.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
