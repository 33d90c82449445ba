package feed_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/feed"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func snapshotWith(mutate func(*order.Snapshot)) order.Snapshot {
	snap := order.Snapshot{
		ID:           kernel.NewUUID().String(),
		CustomerID:   kernel.NewUUID().String(),
		Status:       order.StatusCreated,
		FromLocation: "Kyiv, Khreshchatyk 1",
		FromCity:     "Kyiv",
		ToLocation:   "Lviv, Rynok Square 1",
		ToCity:       "Lviv",
		WeightKg:     120,
	}
	if mutate != nil {
		mutate(&snap)
	}
	return snap
}

func geoPoint(t *testing.T, lat, lon float64) *kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return &p
}

func TestFilter_MatchesScope_City(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.True(t, feed.Filter{}.MatchesScope(snapshotWith(nil)))
	})

	t.Run("pickup city is a case-insensitive substring test", func(t *testing.T) {
		f := feed.Filter{PickupCity: "kyi"}

		assert.True(t, f.MatchesScope(snapshotWith(nil)))
		assert.False(t, f.MatchesScope(snapshotWith(func(s *order.Snapshot) {
			s.FromCity = "Odesa"
			s.FromLocation = "Odesa, Derybasivska 1"
		})))
	})

	t.Run("falls back to the free-form location string", func(t *testing.T) {
		f := feed.Filter{PickupCity: "khreshchatyk"}

		assert.True(t, f.MatchesScope(snapshotWith(func(s *order.Snapshot) {
			s.FromCity = ""
		})))
	})

	t.Run("dropoff city narrows independently", func(t *testing.T) {
		f := feed.Filter{PickupCity: "Kyiv", DropoffCity: "Odesa"}

		assert.False(t, f.MatchesScope(snapshotWith(nil)))
	})
}

func TestFilter_MatchesScope_DayAndWeight(t *testing.T) {
	t.Run("day matches the load-from window's UTC day", func(t *testing.T) {
		loadFrom := time.Date(2025, 3, 20, 23, 30, 0, 0, time.UTC)
		snap := snapshotWith(func(s *order.Snapshot) { s.LoadFrom = &loadFrom })

		assert.True(t, feed.Filter{Day: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)}.MatchesScope(snap))
		assert.False(t, feed.Filter{Day: time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)}.MatchesScope(snap))
	})

	t.Run("day filter excludes orders without a load window", func(t *testing.T) {
		f := feed.Filter{Day: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)}

		assert.False(t, f.MatchesScope(snapshotWith(nil)))
	})

	t.Run("weight range bounds the declared weight", func(t *testing.T) {
		assert.True(t, feed.Filter{MinWeightKg: 100, MaxWeightKg: 200}.MatchesScope(snapshotWith(nil)))
		assert.False(t, feed.Filter{MinWeightKg: 150}.MatchesScope(snapshotWith(nil)))
		assert.False(t, feed.Filter{MaxWeightKg: 100}.MatchesScope(snapshotWith(nil)))
	})
}

func TestFilter_Radius(t *testing.T) {
	kyiv := geoPoint(t, 50.45, 30.52)

	withPickupPoint := func(lat, lon float64) order.Snapshot {
		return snapshotWith(func(s *order.Snapshot) {
			s.FromCity = "elsewhere"
			s.FromLocation = "elsewhere"
			s.FromLat = &lat
			s.FromLon = &lon
		})
	}

	t.Run("accepts pickup points within the radius", func(t *testing.T) {
		f := feed.Filter{RadiusCenter: kyiv, RadiusKm: 50}

		assert.True(t, f.MatchesScope(withPickupPoint(50.5, 30.6)))
		assert.False(t, f.MatchesScope(withPickupPoint(49.84, 24.03)))
	})

	t.Run("orders without coordinates fail the geometry test", func(t *testing.T) {
		f := feed.Filter{RadiusCenter: kyiv, RadiusKm: 50}

		assert.False(t, f.MatchesScope(snapshotWith(func(s *order.Snapshot) {
			s.FromCity = "elsewhere"
			s.FromLocation = "elsewhere"
		})))
	})

	t.Run("city text ORs with geometry", func(t *testing.T) {
		f := feed.Filter{PickupCity: "Kyiv", RadiusCenter: kyiv, RadiusKm: 10}

		// City matches, geometry would not.
		farLat, farLon := 49.84, 24.03
		assert.True(t, f.MatchesScope(snapshotWith(func(s *order.Snapshot) {
			s.FromLat = &farLat
			s.FromLon = &farLon
		})))

		// Geometry matches, city would not.
		assert.True(t, f.MatchesScope(withPickupPoint(50.46, 30.53)))
	})
}

func TestFilter_Corridor(t *testing.T) {
	// Corridor along the equator from (0,0) to (0,1): roughly 111km long.
	corridor := feed.Filter{
		CorridorFrom:   geoPoint(t, 0, 0),
		CorridorTo:     geoPoint(t, 0, 1),
		CorridorHalfKm: 10,
	}

	const kmPerDegree = 111.19

	withPickupPoint := func(lat, lon float64) order.Snapshot {
		return snapshotWith(func(s *order.Snapshot) {
			s.FromCity = ""
			s.FromLocation = "somewhere"
			s.FromLat = &lat
			s.FromLon = &lon
		})
	}

	t.Run("5km perpendicular within the span is in corridor", func(t *testing.T) {
		assert.True(t, corridor.MatchesScope(withPickupPoint(5/kmPerDegree, 0.5)))
	})

	t.Run("15km perpendicular is out", func(t *testing.T) {
		assert.False(t, corridor.MatchesScope(withPickupPoint(15/kmPerDegree, 0.5)))
	})

	t.Run("beyond the destination along the line is out", func(t *testing.T) {
		assert.False(t, corridor.MatchesScope(withPickupPoint(0, 1.05)))
	})

	t.Run("before the origin along the line is out", func(t *testing.T) {
		assert.False(t, corridor.MatchesScope(withPickupPoint(0, -0.05)))
	})

	t.Run("endpoints are in corridor", func(t *testing.T) {
		assert.True(t, corridor.MatchesScope(withPickupPoint(0, 0)))
		assert.True(t, corridor.MatchesScope(withPickupPoint(0, 1)))
	})
}

func TestFilter_MatchesAvailable(t *testing.T) {
	subscriber := kernel.NewUUID()

	t.Run("unclaimed CREATED orders match", func(t *testing.T) {
		f := feed.Filter{SubscriberID: subscriber}

		assert.True(t, f.MatchesAvailable(snapshotWith(nil), filterNow))
	})

	t.Run("foreign active reservation hides the order", func(t *testing.T) {
		until := filterNow.Add(5 * time.Minute)
		snap := snapshotWith(func(s *order.Snapshot) {
			s.ReservedBy = kernel.NewUUID().String()
			s.ReservedUntil = &until
		})

		assert.False(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
	})

	t.Run("lapsed reservation is treated as absent", func(t *testing.T) {
		until := filterNow.Add(-time.Minute)
		snap := snapshotWith(func(s *order.Snapshot) {
			s.ReservedBy = kernel.NewUUID().String()
			s.ReservedUntil = &until
		})

		assert.True(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
	})

	t.Run("own reservation stays visible", func(t *testing.T) {
		until := filterNow.Add(5 * time.Minute)
		snap := snapshotWith(func(s *order.Snapshot) {
			s.ReservedBy = subscriber.String()
			s.ReservedUntil = &until
		})

		assert.True(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
	})

	t.Run("PENDING is visible only to its candidate", func(t *testing.T) {
		until := filterNow.Add(10 * time.Minute)
		snap := snapshotWith(func(s *order.Snapshot) {
			s.Status = order.StatusPending
			s.CandidateDriverID = subscriber.String()
			s.CandidateUntil = &until
		})

		assert.True(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
		assert.False(t, feed.Filter{SubscriberID: kernel.NewUUID()}.MatchesAvailable(snap, filterNow))
	})

	t.Run("assigned orders never match", func(t *testing.T) {
		snap := snapshotWith(func(s *order.Snapshot) { s.Status = order.StatusAccepted })

		assert.False(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
	})

	t.Run("out-of-scope orders never match", func(t *testing.T) {
		f := feed.Filter{SubscriberID: subscriber, PickupCity: "Odesa"}

		assert.False(t, f.MatchesAvailable(snapshotWith(nil), filterNow))
	})
}

func TestFilter_MatchesAvailable_PastLoadWindow(t *testing.T) {
	subscriber := kernel.NewUUID()

	t.Run("past load window is hidden without a day filter", func(t *testing.T) {
		loadFrom := filterNow.AddDate(0, 0, -2)
		snap := snapshotWith(func(s *order.Snapshot) { s.LoadFrom = &loadFrom })

		assert.False(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
	})

	t.Run("load window later today stays visible", func(t *testing.T) {
		loadFrom := filterNow.Add(-2 * time.Hour)
		snap := snapshotWith(func(s *order.Snapshot) { s.LoadFrom = &loadFrom })

		assert.True(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snap, filterNow))
	})

	t.Run("explicit day filter overrides the future restriction", func(t *testing.T) {
		loadFrom := filterNow.AddDate(0, 0, -2)
		snap := snapshotWith(func(s *order.Snapshot) { s.LoadFrom = &loadFrom })
		f := feed.Filter{SubscriberID: subscriber, Day: loadFrom}

		assert.True(t, f.MatchesAvailable(snap, filterNow))
	})

	t.Run("orders without a window are unaffected", func(t *testing.T) {
		assert.True(t, feed.Filter{SubscriberID: subscriber}.MatchesAvailable(snapshotWith(nil), filterNow))
	})
}
