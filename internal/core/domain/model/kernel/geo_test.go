package kernel_test

import (
	"testing"

	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create a valid point", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(50.4501, 30.5234)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.InDelta(t, 50.4501, p.Lat(), 1e-9)
		assert.InDelta(t, 30.5234, p.Lon(), 1e-9)
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		for _, c := range [][2]float64{{-90, -180}, {90, 180}, {0, 0}} {
			_, err := kernel.NewGeoPoint(c[0], c[1])
			require.NoError(t, err)
		}
	})

	t.Run("should reject out of range latitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lat")
	})

	t.Run("should reject out of range longitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lon")
	})

	t.Run("zero value should fail validation", func(t *testing.T) {
		var p kernel.GeoPoint
		require.Error(t, p.Validate())
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("should compute Kyiv to Lviv distance", func(t *testing.T) {
		kyiv, _ := kernel.NewGeoPoint(50.4501, 30.5234)
		lviv, _ := kernel.NewGeoPoint(49.8397, 24.0297)

		d, err := kyiv.DistanceKm(lviv)

		require.NoError(t, err)
		// great-circle distance is roughly 468 km
		assert.InDelta(t, 468, d, 5)
	})

	t.Run("should be zero for the same point", func(t *testing.T) {
		p, _ := kernel.NewGeoPoint(48.45, 35.05)

		d, err := p.DistanceKm(p)

		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(50.4501, 30.5234)
		b, _ := kernel.NewGeoPoint(46.4825, 30.7233)

		d1, err := a.DistanceKm(b)
		require.NoError(t, err)
		d2, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("should fail on unconstructed point", func(t *testing.T) {
		p, _ := kernel.NewGeoPoint(50, 30)
		var zero kernel.GeoPoint

		_, err := p.DistanceKm(zero)
		require.Error(t, err)
	})
}

func TestGeoPoint_PlanarKmFrom(t *testing.T) {
	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		origin, _ := kernel.NewGeoPoint(50, 30)
		north, _ := kernel.NewGeoPoint(51, 30)

		x, y, err := north.PlanarKmFrom(origin, 50.5)

		require.NoError(t, err)
		assert.InDelta(t, 0, x, 1e-9)
		assert.InDelta(t, 111.19, y, 0.5)
	})

	t.Run("longitude offset shrinks with latitude", func(t *testing.T) {
		origin, _ := kernel.NewGeoPoint(60, 30)
		east, _ := kernel.NewGeoPoint(60, 31)

		x, _, err := east.PlanarKmFrom(origin, 60)

		require.NoError(t, err)
		// cos(60°) = 0.5, so one degree of longitude is about 55.6 km
		assert.InDelta(t, 55.6, x, 0.5)
	})
}
