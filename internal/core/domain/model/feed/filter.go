package feed

import (
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// Filter is a per-subscription predicate over order snapshots. It is
// rebuilt from connection parameters at connect time and lives only as
// long as the connection. Zero-value fields mean "no constraint".
//
// Matching is deliberately permissive on the pickup side: when both a
// pickup-city text and a geometry predicate (radius or corridor) are
// present, an order matches if either passes. This breadth-over-precision
// choice keeps drivers from missing orders with sloppy city spellings.
type Filter struct {
	// PickupCity and DropoffCity are case-insensitive substring tests
	// against the order's city and free-form location fields.
	PickupCity  string
	DropoffCity string

	// Day constrains the order's load-from window to one UTC day.
	Day time.Time

	// MinWeightKg/MaxWeightKg bound the declared cargo weight. Zero max
	// means unbounded.
	MinWeightKg float64
	MaxWeightKg float64

	// RadiusCenter/RadiusKm accept orders whose pickup point lies within
	// the great-circle radius.
	RadiusCenter *kernel.GeoPoint
	RadiusKm     float64

	// CorridorFrom/CorridorTo/CorridorHalfKm accept orders whose pickup
	// point lies within a rectangular strip around the segment between
	// the two points.
	CorridorFrom   *kernel.GeoPoint
	CorridorTo     *kernel.GeoPoint
	CorridorHalfKm float64

	// SubscriberID widens visibility to orders the subscriber personally
	// holds a claim on, so their own pending requests stay in view.
	SubscriberID kernel.UUID
}

// MatchesAvailable reports whether the snapshot should appear in the
// subscriber's catch-up burst: a CREATED order with no active foreign
// claim (or one claimed by the subscriber), inside the filter's scope.
func (f Filter) MatchesAvailable(snap order.Snapshot, now time.Time) bool {
	if !f.MatchesScope(snap) {
		return false
	}

	// Without an explicit day filter the availability view hides orders
	// whose load window already started in the past.
	if f.Day.IsZero() && snap.LoadFrom != nil {
		y, m, d := now.UTC().Date()
		startOfToday := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if snap.LoadFrom.Before(startOfToday) {
			return false
		}
	}

	switch snap.Status {
	case order.StatusCreated:
		return f.claimableBy(snap, now)
	case order.StatusPending:
		// Pending orders stay visible to their own candidate.
		return f.ownClaim(snap)
	default:
		return false
	}
}

// MatchesScope reports whether the snapshot falls inside the filter's
// static scope (city, day, weight, geometry), ignoring status and claim
// state. Broadcast and poll delivery use this so subscribers also see an
// in-scope order being claimed, released or completed and can drop it
// from their view.
func (f Filter) MatchesScope(snap order.Snapshot) bool {
	if !f.pickupMatches(snap) {
		return false
	}
	if f.DropoffCity != "" && !containsFold(f.DropoffCity, snap.ToCity, snap.ToLocation) {
		return false
	}
	if !f.Day.IsZero() {
		if snap.LoadFrom == nil {
			return false
		}
		y1, m1, d1 := f.Day.UTC().Date()
		y2, m2, d2 := snap.LoadFrom.UTC().Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	if f.MinWeightKg > 0 && snap.WeightKg < f.MinWeightKg {
		return false
	}
	if f.MaxWeightKg > 0 && snap.WeightKg > f.MaxWeightKg {
		return false
	}
	return true
}

// pickupMatches applies the permissive OR between the pickup-city text
// test and the geometry predicate.
func (f Filter) pickupMatches(snap order.Snapshot) bool {
	hasCity := f.PickupCity != ""
	hasGeometry := f.hasRadius() || f.hasCorridor()

	if !hasCity && !hasGeometry {
		return true
	}
	if hasCity && containsFold(f.PickupCity, snap.FromCity, snap.FromLocation) {
		return true
	}
	if hasGeometry && f.geometryMatches(snap) {
		return true
	}
	return false
}

func (f Filter) hasRadius() bool {
	return f.RadiusCenter != nil && f.RadiusKm > 0
}

func (f Filter) hasCorridor() bool {
	return f.CorridorFrom != nil && f.CorridorTo != nil && f.CorridorHalfKm > 0
}

func (f Filter) geometryMatches(snap order.Snapshot) bool {
	if snap.FromLat == nil || snap.FromLon == nil {
		return false
	}
	point, err := kernel.NewGeoPoint(*snap.FromLat, *snap.FromLon)
	if err != nil {
		return false
	}

	if f.hasRadius() {
		if dist, err := f.RadiusCenter.DistanceKm(point); err == nil && dist <= f.RadiusKm {
			return true
		}
	}
	if f.hasCorridor() && f.inCorridor(point) {
		return true
	}
	return false
}

// inCorridor projects the pickup point into a local planar approximation
// centered at the corridor's midpoint latitude and tests that its
// projection onto the segment falls within [0, |AB|] with perpendicular
// distance at most the half-width.
func (f Filter) inCorridor(point kernel.GeoPoint) bool {
	refLat := (f.CorridorFrom.Lat() + f.CorridorTo.Lat()) / 2

	bx, by, err := f.CorridorTo.PlanarKmFrom(*f.CorridorFrom, refLat)
	if err != nil {
		return false
	}
	px, py, err := point.PlanarKmFrom(*f.CorridorFrom, refLat)
	if err != nil {
		return false
	}

	segLenSq := bx*bx + by*by
	if segLenSq == 0 {
		// Degenerate corridor collapses to a radius test.
		dx, dy := px, py
		return dx*dx+dy*dy <= f.CorridorHalfKm*f.CorridorHalfKm
	}

	// Scalar projection of P onto A->B, in units of |AB|.
	tScaled := px*bx + py*by
	if tScaled < 0 || tScaled > segLenSq {
		return false
	}

	// Perpendicular distance via the cross product magnitude.
	cross := px*by - py*bx
	distSq := cross * cross / segLenSq
	return distSq <= f.CorridorHalfKm*f.CorridorHalfKm
}

// claimableBy reports whether a CREATED snapshot carries no active claim,
// or only one held by the subscriber.
func (f Filter) claimableBy(snap order.Snapshot, now time.Time) bool {
	if snap.ReservedBy != "" && snap.ReservedUntil != nil && now.Before(*snap.ReservedUntil) {
		return snap.ReservedBy == f.SubscriberID.String()
	}
	return true
}

// ownClaim reports whether the subscriber is the snapshot's candidate or
// reservation holder.
func (f Filter) ownClaim(snap order.Snapshot) bool {
	id := f.SubscriberID.String()
	if err := f.SubscriberID.Validate(); err != nil {
		return false
	}
	return snap.CandidateDriverID == id || snap.ReservedBy == id
}

func containsFold(needle string, haystacks ...string) bool {
	n := strings.ToLower(needle)
	for _, h := range haystacks {
		if h != "" && strings.Contains(strings.ToLower(h), n) {
			return true
		}
	}
	return false
}
