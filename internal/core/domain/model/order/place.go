package order

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Place describes one endpoint of a shipment route: a free-form location
// string plus optional structured address fields and an optional geographic
// point used for radius and corridor matching.
type Place struct {
	location string
	country  string
	city     string
	address  string
	postcode string
	point    *kernel.GeoPoint
}

// NewPlace creates a Place. Only the free-form location is required; the
// geographic point may be nil when the client did not provide coordinates.
func NewPlace(location, country, city, address, postcode string, point *kernel.GeoPoint) (Place, error) {
	if location == "" {
		return Place{}, errs.NewValueIsRequiredError("location")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Place{}, err
		}
	}

	return Place{
		location: location,
		country:  country,
		city:     city,
		address:  address,
		postcode: postcode,
		point:    point,
	}, nil
}

// Location returns the free-form location string.
func (p Place) Location() string {
	return p.location
}

// Country returns the country component, if any.
func (p Place) Country() string {
	return p.country
}

// City returns the city component, if any.
func (p Place) City() string {
	return p.city
}

// Address returns the street address component, if any.
func (p Place) Address() string {
	return p.address
}

// Postcode returns the postal code component, if any.
func (p Place) Postcode() string {
	return p.postcode
}

// Point returns the geographic point, or nil when coordinates are unknown.
func (p Place) Point() *kernel.GeoPoint {
	return p.point
}

// Validate checks the Place invariants.
func (p Place) Validate() error {
	if p.location == "" {
		return errs.NewValueIsRequiredError("location")
	}
	if p.point != nil {
		return p.point.Validate()
	}
	return nil
}
