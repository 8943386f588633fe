package services

import (
	"context"
	"log"
	"math"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
)

// FeeCalculator resolves the delivery fee for a draft address. Pickup is
// always free; delivery fees come from geocoding the address and walking
// the store's distance band table.
type FeeCalculator struct {
	geo infra.GeocodeClientInterface
}

func NewFeeCalculator(geo infra.GeocodeClientInterface) *FeeCalculator {
	return &FeeCalculator{geo: geo}
}

// ComputeFee returns the fee quote for the given method and address.
// An incomplete address or unknown store origin yields an indeterminate
// quote, which callers must treat as "not yet computable", not an error.
func (f *FeeCalculator) ComputeFee(ctx context.Context, cfg domain.StoreConfig, method domain.DeliveryMethod, addr domain.Address) domain.FeeQuote {
	if method == domain.MethodPickup {
		zero := 0.0
		return domain.FeeQuote{Fee: &zero}
	}

	if !addr.Complete() || cfg.Origin == nil {
		return domain.FeeQuote{}
	}

	coords, err := f.geo.Geocode(ctx, addr.Line())
	if err != nil {
		log.Printf("fee: geocode failed for %q: %v", addr.Line(), err)
		return domain.FeeQuote{BlockedReason: domain.BlockedCalcError}
	}
	if coords == nil {
		return domain.FeeQuote{BlockedReason: domain.BlockedCalcError}
	}

	distance := haversineKm(*cfg.Origin, *coords)
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return domain.FeeQuote{BlockedReason: domain.BlockedCalcError}
	}

	table := cfg.FeeTable
	if len(table) == 0 {
		table = domain.DefaultFeeTable()
	}

	fee, ok := table.FeeFor(distance)
	if !ok {
		return domain.FeeQuote{DistanceKm: &distance, BlockedReason: domain.BlockedOutsideArea}
	}
	return domain.FeeQuote{DistanceKm: &distance, Fee: &fee}
}

const earthRadiusKm = 6371.0

func haversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
