package ws

import (
	"net/url"
	"time"

	"freight/internal/core/domain/model/feed"
	"freight/internal/core/domain/model/kernel"

	"github.com/spf13/cast"
)

// dayFormats are the accepted spellings of the day filter. Short form
// resolves against the current year.
var dayFormats = []string{"02.01.2006", "2006-01-02"}

// ParseFilter builds a feed filter from connection query parameters.
// Parsing is deliberately forgiving: a malformed or partial parameter is
// treated as absent rather than failing the subscription, so a client
// with a buggy filter still receives the unfiltered feed.
func ParseFilter(values url.Values, subscriberID kernel.UUID) feed.Filter {
	filter := feed.Filter{
		PickupCity:   values.Get("pickupCity"),
		DropoffCity:  values.Get("dropoffCity"),
		Day:          parseDay(firstParam(values, "date", "day"), time.Now().UTC()),
		MinWeightKg:  cast.ToFloat64(values.Get("minWeight")),
		MaxWeightKg:  cast.ToFloat64(values.Get("maxWeight")),
		SubscriberID: subscriberID,
	}

	if radiusKm := cast.ToFloat64(firstParam(values, "radius", "radiusKm")); radiusKm > 0 {
		if center := parsePoint(values.Get("lat"), values.Get("lon")); center != nil {
			filter.RadiusCenter = center
			filter.RadiusKm = radiusKm
		}
	}

	if halfKm := cast.ToFloat64(values.Get("corridorKm")); halfKm > 0 {
		from := parsePoint(values.Get("corridorFromLat"), values.Get("corridorFromLon"))
		to := parsePoint(values.Get("corridorToLat"), values.Get("corridorToLon"))
		if from != nil && to != nil {
			filter.CorridorFrom = from
			filter.CorridorTo = to
			filter.CorridorHalfKm = halfKm
		}
	}

	return filter
}

// firstParam returns the first non-empty value among the given keys.
func firstParam(values url.Values, keys ...string) string {
	for _, key := range keys {
		if v := values.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// parseDay accepts DD.MM, DD.MM.YYYY and YYYY-MM-DD. The year-less form
// resolves against the current year.
func parseDay(raw string, now time.Time) time.Time {
	if raw == "" {
		return time.Time{}
	}

	if day, err := time.Parse("02.01", raw); err == nil {
		return time.Date(now.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	}
	for _, format := range dayFormats {
		if day, err := time.Parse(format, raw); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

func parsePoint(rawLat, rawLon string) *kernel.GeoPoint {
	if rawLat == "" || rawLon == "" {
		return nil
	}

	lat, err := cast.ToFloat64E(rawLat)
	if err != nil {
		return nil
	}
	lon, err := cast.ToFloat64E(rawLon)
	if err != nil {
		return nil
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return nil
	}
	return &point
}
