// Package orderrepo persists order aggregates. The database row mirrors
// the aggregate's flat snapshot one column per field, with the history and
// photo collections stored as JSON documents, so the write model, the read
// queries and the realtime feed all share one representation.
package orderrepo

import (
	"encoding/json"
	"time"

	"freight/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Indexed for the hot lookups: feed listings by status and
// recency, per-user listings and the hold expiry sweep.
type OrderDTO struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	CustomerID string  `gorm:"type:uuid;index"`
	DriverID   *string `gorm:"type:uuid;index"`
	Status     string  `gorm:"index"`

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
	Photos      []byte `gorm:"type:jsonb"`

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

	ReservedBy        *string `gorm:"type:uuid;index"`
	ReservedUntil     *time.Time
	CandidateDriverID *string `gorm:"type:uuid;index"`
	CandidateUntil    *time.Time

	History []byte `gorm:"type:jsonb"`
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	snap := aggregate.Snapshot()

	photos, err := json.Marshal(snap.Photos)
	if err != nil {
		return OrderDTO{}, err
	}
	history, err := json.Marshal(snap.History)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:         snap.ID,
		CustomerID: snap.CustomerID,
		DriverID:   strPtr(snap.DriverID),
		Status:     string(snap.Status),

		FromLocation: snap.FromLocation,
		FromCountry:  snap.FromCountry,
		FromCity:     snap.FromCity,
		FromAddress:  snap.FromAddress,
		FromPostcode: snap.FromPostcode,
		FromLat:      snap.FromLat,
		FromLon:      snap.FromLon,

		ToLocation: snap.ToLocation,
		ToCountry:  snap.ToCountry,
		ToCity:     snap.ToCity,
		ToAddress:  snap.ToAddress,
		ToPostcode: snap.ToPostcode,
		ToLat:      snap.ToLat,
		ToLon:      snap.ToLon,

		Description: snap.Description,
		WeightKg:    snap.WeightKg,
		LengthM:     snap.LengthM,
		WidthM:      snap.WidthM,
		HeightM:     snap.HeightM,
		Photos:      photos,

		Price:         snap.Price,
		SystemPrice:   snap.SystemPrice,
		AgreedPrice:   snap.AgreedPrice,
		FinalPrice:    snap.FinalPrice,
		PaymentMethod: string(snap.Payment),

		Insurance:  snap.Insurance,
		LoadHelp:   snap.LoadHelp,
		UnloadHelp: snap.UnloadHelp,

		LoadFrom:   snap.LoadFrom,
		LoadTo:     snap.LoadTo,
		UnloadFrom: snap.UnloadFrom,
		UnloadTo:   snap.UnloadTo,

		ReservedBy:        strPtr(snap.ReservedBy),
		ReservedUntil:     snap.ReservedUntil,
		CandidateDriverID: strPtr(snap.CandidateDriverID),
		CandidateUntil:    snap.CandidateUntil,

		History: history,
		Version: snap.Version,

		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}, nil
}

// toDomain converts a database DTO back into an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	snap := order.Snapshot{
		ID:         dto.ID,
		CustomerID: dto.CustomerID,
		DriverID:   strValue(dto.DriverID),
		Status:     order.Status(dto.Status),

		FromLocation: dto.FromLocation,
		FromCountry:  dto.FromCountry,
		FromCity:     dto.FromCity,
		FromAddress:  dto.FromAddress,
		FromPostcode: dto.FromPostcode,
		FromLat:      dto.FromLat,
		FromLon:      dto.FromLon,

		ToLocation: dto.ToLocation,
		ToCountry:  dto.ToCountry,
		ToCity:     dto.ToCity,
		ToAddress:  dto.ToAddress,
		ToPostcode: dto.ToPostcode,
		ToLat:      dto.ToLat,
		ToLon:      dto.ToLon,

		Description: dto.Description,
		WeightKg:    dto.WeightKg,
		LengthM:     dto.LengthM,
		WidthM:      dto.WidthM,
		HeightM:     dto.HeightM,

		Price:       dto.Price,
		SystemPrice: dto.SystemPrice,
		AgreedPrice: dto.AgreedPrice,
		FinalPrice:  dto.FinalPrice,
		Payment:     order.PaymentMethod(dto.PaymentMethod),

		Insurance:  dto.Insurance,
		LoadHelp:   dto.LoadHelp,
		UnloadHelp: dto.UnloadHelp,

		LoadFrom:   dto.LoadFrom,
		LoadTo:     dto.LoadTo,
		UnloadFrom: dto.UnloadFrom,
		UnloadTo:   dto.UnloadTo,

		ReservedBy:        strValue(dto.ReservedBy),
		ReservedUntil:     dto.ReservedUntil,
		CandidateDriverID: strValue(dto.CandidateDriverID),
		CandidateUntil:    dto.CandidateUntil,

		Version:   dto.Version,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}

	if len(dto.Photos) > 0 {
		if err := json.Unmarshal(dto.Photos, &snap.Photos); err != nil {
			return nil, err
		}
	}
	if len(dto.History) > 0 {
		if err := json.Unmarshal(dto.History, &snap.History); err != nil {
			return nil, err
		}
	}

	return order.RestoreFromSnapshot(snap)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
