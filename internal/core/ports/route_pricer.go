package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// RoutePricer estimates the driving distance between two points, feeding
// the platform's suggested price. Callers treat failures as "price
// unknown", never as fatal.
type RoutePricer interface {
	// DistanceKm returns the road distance between the two points in
	// kilometers.
	DistanceKm(ctx context.Context, from, to kernel.GeoPoint) (float64, error)
}
