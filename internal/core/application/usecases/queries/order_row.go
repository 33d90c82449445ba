package queries

import (
	"encoding/json"
	"time"

	"freight/internal/core/domain/model/order"
)

// orderRow mirrors the orders table one column per field. Query handlers
// scan raw SQL results into it and project each row into an order.Snapshot,
// the same flat shape the write side persists, so read and write models
// cannot drift apart.
type orderRow struct {
	ID         string
	CustomerID string
	DriverID   *string
	Status     string

	FromLocation string
	FromCountry  string
	FromCity     string
	FromAddress  string
	FromPostcode string
	FromLat      *float64
	FromLon      *float64

	ToLocation string
	ToCountry  string
	ToCity     string
	ToAddress  string
	ToPostcode string
	ToLat      *float64
	ToLon      *float64

	Description string
	WeightKg    float64
	LengthM     float64
	WidthM      float64
	HeightM     float64
	Photos      []byte

	Price         float64
	SystemPrice   float64
	AgreedPrice   bool
	FinalPrice    *float64
	PaymentMethod string

	Insurance  bool
	LoadHelp   bool
	UnloadHelp bool

	LoadFrom   *time.Time
	LoadTo     *time.Time
	UnloadFrom *time.Time
	UnloadTo   *time.Time

	ReservedBy        *string
	ReservedUntil     *time.Time
	CandidateDriverID *string
	CandidateUntil    *time.Time

	History   []byte
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// snapshot converts the database row into the feed and API representation.
// The photos and history columns hold JSON documents and are decoded here.
func (r orderRow) snapshot() (order.Snapshot, error) {
	snap := order.Snapshot{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		DriverID:   strValue(r.DriverID),
		Status:     order.Status(r.Status),

		FromLocation: r.FromLocation,
		FromCountry:  r.FromCountry,
		FromCity:     r.FromCity,
		FromAddress:  r.FromAddress,
		FromPostcode: r.FromPostcode,
		FromLat:      r.FromLat,
		FromLon:      r.FromLon,

		ToLocation: r.ToLocation,
		ToCountry:  r.ToCountry,
		ToCity:     r.ToCity,
		ToAddress:  r.ToAddress,
		ToPostcode: r.ToPostcode,
		ToLat:      r.ToLat,
		ToLon:      r.ToLon,

		Description: r.Description,
		WeightKg:    r.WeightKg,
		LengthM:     r.LengthM,
		WidthM:      r.WidthM,
		HeightM:     r.HeightM,

		Price:       r.Price,
		SystemPrice: r.SystemPrice,
		AgreedPrice: r.AgreedPrice,
		FinalPrice:  r.FinalPrice,
		Payment:     order.PaymentMethod(r.PaymentMethod),

		Insurance:  r.Insurance,
		LoadHelp:   r.LoadHelp,
		UnloadHelp: r.UnloadHelp,

		LoadFrom:   r.LoadFrom,
		LoadTo:     r.LoadTo,
		UnloadFrom: r.UnloadFrom,
		UnloadTo:   r.UnloadTo,

		ReservedBy:        strValue(r.ReservedBy),
		ReservedUntil:     r.ReservedUntil,
		CandidateDriverID: strValue(r.CandidateDriverID),
		CandidateUntil:    r.CandidateUntil,

		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if len(r.Photos) > 0 {
		if err := json.Unmarshal(r.Photos, &snap.Photos); err != nil {
			return order.Snapshot{}, err
		}
	}
	if len(r.History) > 0 {
		if err := json.Unmarshal(r.History, &snap.History); err != nil {
			return order.Snapshot{}, err
		}
	}

	return snap, nil
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
