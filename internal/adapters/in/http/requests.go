package http

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// placeRequest is the transport shape of a pickup or dropoff place.
type placeRequest struct {
	Location string   `json:"location"`
	Country  string   `json:"country"`
	City     string   `json:"city"`
	Address  string   `json:"address"`
	Postcode string   `json:"postcode"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

func (r placeRequest) toDomain() (order.Place, error) {
	var point *kernel.GeoPoint
	if r.Lat != nil && r.Lon != nil {
		p, err := kernel.NewGeoPoint(*r.Lat, *r.Lon)
		if err != nil {
			return order.Place{}, err
		}
		point = &p
	}
	return order.NewPlace(r.Location, r.Country, r.City, r.Address, r.Postcode, point)
}

// cargoRequest is the transport shape of the cargo declaration.
type cargoRequest struct {
	Description string   `json:"description"`
	Weight      float64  `json:"weight"`
	Length      float64  `json:"length"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Photos      []string `json:"photos"`
}

func (r cargoRequest) toDomain() (order.Cargo, error) {
	return order.NewCargo(r.Description, r.Weight, r.Length, r.Width, r.Height, r.Photos)
}

// scheduleRequest carries the optional load and unload windows.
type scheduleRequest struct {
	LoadFrom   *time.Time `json:"loadFrom"`
	LoadTo     *time.Time `json:"loadTo"`
	UnloadFrom *time.Time `json:"unloadFrom"`
	UnloadTo   *time.Time `json:"unloadTo"`
}

func (r scheduleRequest) toDomain() (order.Schedule, error) {
	return order.NewSchedule(
		timeValue(r.LoadFrom), timeValue(r.LoadTo),
		timeValue(r.UnloadFrom), timeValue(r.UnloadTo),
	)
}

// createOrderRequest is the body of POST /api/v1/orders.
type createOrderRequest struct {
	From  placeRequest `json:"from"`
	To    placeRequest `json:"to"`
	Cargo cargoRequest `json:"cargo"`
	scheduleRequest

	Price         float64 `json:"price"`
	AgreedPrice   bool    `json:"agreedPrice"`
	PaymentMethod string  `json:"paymentMethod"`
	Insurance     bool    `json:"insurance"`
	LoadHelp      bool    `json:"loadHelp"`
	UnloadHelp    bool    `json:"unloadHelp"`
}

// editOrderRequest is the body of PATCH /api/v1/orders/:id. Absent
// fields leave the posting untouched.
type editOrderRequest struct {
	From  *placeRequest `json:"from"`
	To    *placeRequest `json:"to"`
	Cargo *cargoRequest `json:"cargo"`

	LoadFrom   *time.Time `json:"loadFrom"`
	LoadTo     *time.Time `json:"loadTo"`
	UnloadFrom *time.Time `json:"unloadFrom"`
	UnloadTo   *time.Time `json:"unloadTo"`

	Price         *float64 `json:"price"`
	AgreedPrice   *bool    `json:"agreedPrice"`
	PaymentMethod *string  `json:"paymentMethod"`
	Insurance     *bool    `json:"insurance"`
	LoadHelp      *bool    `json:"loadHelp"`
	UnloadHelp    *bool    `json:"unloadHelp"`
}

// toChanges maps the request onto the aggregate's change set.
func (r editOrderRequest) toChanges() (order.Changes, error) {
	var changes order.Changes

	if r.From != nil {
		place, err := r.From.toDomain()
		if err != nil {
			return order.Changes{}, err
		}
		changes.Pickup = &place
	}
	if r.To != nil {
		place, err := r.To.toDomain()
		if err != nil {
			return order.Changes{}, err
		}
		changes.Dropoff = &place
	}
	if r.Cargo != nil {
		cargo, err := r.Cargo.toDomain()
		if err != nil {
			return order.Changes{}, err
		}
		changes.Cargo = &cargo
	}
	if r.LoadFrom != nil || r.LoadTo != nil || r.UnloadFrom != nil || r.UnloadTo != nil {
		schedule, err := order.NewSchedule(
			timeValue(r.LoadFrom), timeValue(r.LoadTo),
			timeValue(r.UnloadFrom), timeValue(r.UnloadTo),
		)
		if err != nil {
			return order.Changes{}, err
		}
		changes.Schedule = &schedule
	}
	if r.PaymentMethod != nil {
		payment := order.PaymentMethod(*r.PaymentMethod)
		changes.Payment = &payment
	}

	changes.Price = r.Price
	changes.AgreedPrice = r.AgreedPrice
	changes.Insurance = r.Insurance
	changes.LoadHelp = r.LoadHelp
	changes.UnloadHelp = r.UnloadHelp

	return changes, nil
}

// acceptOrderRequest optionally carries the driver's proposed final
// price for negotiable orders.
type acceptOrderRequest struct {
	FinalPrice *float64 `json:"finalPrice"`
}

// reserveOrderRequest optionally carries a price proposal made together
// with the hold.
type reserveOrderRequest struct {
	FinalPrice *float64 `json:"finalPrice"`
}

// photoRequest carries an optional proof-of-work photo reference.
type photoRequest struct {
	Photo string `json:"photo"`
}

// updatePriceRequest is the body of POST /api/v1/orders/:id/price.
type updatePriceRequest struct {
	Value float64 `json:"value"`
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
