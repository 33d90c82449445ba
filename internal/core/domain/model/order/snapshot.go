package order

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

// Snapshot is the flat, JSON-ready projection of an Order. It serves as
// the persistence shape, the realtime feed payload and the query response
// body, so the three never drift apart. Identifier fields are plain
// strings; empty means absent.
type Snapshot struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	DriverID   string `json:"driverId,omitempty"`

	Status Status `json:"status"`

	FromLocation string   `json:"fromLocation"`
	FromCountry  string   `json:"fromCountry,omitempty"`
	FromCity     string   `json:"fromCity,omitempty"`
	FromAddress  string   `json:"fromAddress,omitempty"`
	FromPostcode string   `json:"fromPostcode,omitempty"`
	FromLat      *float64 `json:"fromLat,omitempty"`
	FromLon      *float64 `json:"fromLon,omitempty"`

	ToLocation string   `json:"toLocation"`
	ToCountry  string   `json:"toCountry,omitempty"`
	ToCity     string   `json:"toCity,omitempty"`
	ToAddress  string   `json:"toAddress,omitempty"`
	ToPostcode string   `json:"toPostcode,omitempty"`
	ToLat      *float64 `json:"toLat,omitempty"`
	ToLon      *float64 `json:"toLon,omitempty"`

	Description string   `json:"description,omitempty"`
	WeightKg    float64  `json:"weight"`
	LengthM     float64  `json:"length,omitempty"`
	WidthM      float64  `json:"width,omitempty"`
	HeightM     float64  `json:"height,omitempty"`
	Photos      []string `json:"photos,omitempty"`

	Price       float64       `json:"price"`
	SystemPrice float64       `json:"systemPrice,omitempty"`
	AgreedPrice bool          `json:"agreedPrice"`
	FinalPrice  *float64      `json:"finalPrice,omitempty"`
	Payment     PaymentMethod `json:"paymentMethod,omitempty"`

	Insurance  bool `json:"insurance"`
	LoadHelp   bool `json:"loadHelp"`
	UnloadHelp bool `json:"unloadHelp"`

	LoadFrom   *time.Time `json:"loadFrom,omitempty"`
	LoadTo     *time.Time `json:"loadTo,omitempty"`
	UnloadFrom *time.Time `json:"unloadFrom,omitempty"`
	UnloadTo   *time.Time `json:"unloadTo,omitempty"`

	ReservedBy        string     `json:"reservedBy,omitempty"`
	ReservedUntil     *time.Time `json:"reservedUntil,omitempty"`
	CandidateDriverID string     `json:"candidateDriverId,omitempty"`
	CandidateUntil    *time.Time `json:"candidateUntil,omitempty"`

	History History `json:"history"`

	Version   int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeletionMarker is the feed payload announcing that an order was removed.
type DeletionMarker struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Snapshot projects the aggregate into its flat representation.
func (o *Order) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         o.id.String(),
		CustomerID: o.customerID.String(),
		Status:     o.status,

		FromLocation: o.pickup.location,
		FromCountry:  o.pickup.country,
		FromCity:     o.pickup.city,
		FromAddress:  o.pickup.address,
		FromPostcode: o.pickup.postcode,

		ToLocation: o.dropoff.location,
		ToCountry:  o.dropoff.country,
		ToCity:     o.dropoff.city,
		ToAddress:  o.dropoff.address,
		ToPostcode: o.dropoff.postcode,

		Description: o.cargo.description,
		WeightKg:    o.cargo.weightKg,
		LengthM:     o.cargo.lengthM,
		WidthM:      o.cargo.widthM,
		HeightM:     o.cargo.heightM,
		Photos:      o.cargo.Photos(),

		Price:       o.price,
		SystemPrice: o.systemPrice,
		AgreedPrice: o.agreedPrice,
		Payment:     o.payment,

		Insurance:  o.insurance,
		LoadHelp:   o.loadHelp,
		UnloadHelp: o.unloadHelp,

		History:   append(History(nil), o.history...),
		Version:   o.version,
		CreatedAt: o.createdAt,
		UpdatedAt: o.updatedAt,
	}

	if o.driverID != nil {
		snap.DriverID = o.driverID.String()
	}
	if o.finalPrice != nil {
		fp := *o.finalPrice
		snap.FinalPrice = &fp
	}
	if p := o.pickup.point; p != nil {
		lat, lon := p.Lat(), p.Lon()
		snap.FromLat, snap.FromLon = &lat, &lon
	}
	if p := o.dropoff.point; p != nil {
		lat, lon := p.Lat(), p.Lon()
		snap.ToLat, snap.ToLon = &lat, &lon
	}

	snap.LoadFrom = timePtr(o.schedule.loadFrom)
	snap.LoadTo = timePtr(o.schedule.loadTo)
	snap.UnloadFrom = timePtr(o.schedule.unloadFrom)
	snap.UnloadTo = timePtr(o.schedule.unloadTo)

	if o.reservedBy != nil {
		snap.ReservedBy = o.reservedBy.String()
		until := o.reservedUntil
		snap.ReservedUntil = &until
	}
	if o.candidateID != nil {
		snap.CandidateDriverID = o.candidateID.String()
		until := o.candidateUntil
		snap.CandidateUntil = &until
	}

	return snap
}

// RestoreFromSnapshot reconstructs an Order from its flat representation,
// bypassing the creation-time defaults but not the invariants.
func RestoreFromSnapshot(snap Snapshot) (*Order, error) {
	id, err := kernel.UUIDFromString(snap.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromString(snap.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := snap.Status.Validate(); err != nil {
		return nil, err
	}

	pickupPoint, err := pointFromCoords(snap.FromLat, snap.FromLon)
	if err != nil {
		return nil, err
	}
	dropoffPoint, err := pointFromCoords(snap.ToLat, snap.ToLon)
	if err != nil {
		return nil, err
	}

	pickup, err := NewPlace(snap.FromLocation, snap.FromCountry, snap.FromCity, snap.FromAddress, snap.FromPostcode, pickupPoint)
	if err != nil {
		return nil, err
	}
	dropoff, err := NewPlace(snap.ToLocation, snap.ToCountry, snap.ToCity, snap.ToAddress, snap.ToPostcode, dropoffPoint)
	if err != nil {
		return nil, err
	}
	cargo, err := NewCargo(snap.Description, snap.WeightKg, snap.LengthM, snap.WidthM, snap.HeightM, snap.Photos)
	if err != nil {
		return nil, err
	}
	schedule, err := NewSchedule(
		timeValue(snap.LoadFrom), timeValue(snap.LoadTo),
		timeValue(snap.UnloadFrom), timeValue(snap.UnloadTo),
	)
	if err != nil {
		return nil, err
	}

	o := &Order{
		id:            id,
		customerID:    customerID,
		pickup:        pickup,
		dropoff:       dropoff,
		cargo:         cargo,
		schedule:      schedule,
		payment:       snap.Payment,
		price:         snap.Price,
		systemPrice:   snap.SystemPrice,
		agreedPrice:   snap.AgreedPrice,
		insurance:     snap.Insurance,
		loadHelp:      snap.LoadHelp,
		unloadHelp:    snap.UnloadHelp,
		status:        snap.Status,
		history:       append(History(nil), snap.History...),
		version:       snap.Version,
		createdAt:     snap.CreatedAt,
		updatedAt:     snap.UpdatedAt,
		isConstructed: true,
	}

	if snap.DriverID != "" {
		driverID, err := kernel.UUIDFromString(snap.DriverID)
		if err != nil {
			return nil, err
		}
		o.driverID = &driverID
	}
	if snap.FinalPrice != nil {
		fp := *snap.FinalPrice
		o.finalPrice = &fp
	}
	if snap.ReservedBy != "" {
		reservedBy, err := kernel.UUIDFromString(snap.ReservedBy)
		if err != nil {
			return nil, err
		}
		o.reservedBy = &reservedBy
		o.reservedUntil = timeValue(snap.ReservedUntil)
	}
	if snap.CandidateDriverID != "" {
		candidateID, err := kernel.UUIDFromString(snap.CandidateDriverID)
		if err != nil {
			return nil, err
		}
		o.candidateID = &candidateID
		o.candidateUntil = timeValue(snap.CandidateUntil)
	}

	return o, nil
}

func pointFromCoords(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
