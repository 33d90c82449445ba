package order

import (
	"freight/internal/pkg/errs"
)

// volumetricFactorKgPerCubicM converts cargo volume to a chargeable weight.
const volumetricFactorKgPerCubicM = 250.0

// Cargo describes what is being shipped. Weight is mandatory; dimensions
// and photos are optional.
type Cargo struct {
	description string
	weightKg    float64
	lengthM     float64
	widthM      float64
	heightM     float64
	photos      []string
}

// NewCargo creates a Cargo. WeightKg must be positive; dimensions, when
// given, must be non-negative.
func NewCargo(description string, weightKg, lengthM, widthM, heightM float64, photos []string) (Cargo, error) {
	if weightKg <= 0 {
		return Cargo{}, errs.NewValueIsInvalidError("weightKg")
	}
	if lengthM < 0 || widthM < 0 || heightM < 0 {
		return Cargo{}, errs.NewValueIsInvalidError("dimensions")
	}

	return Cargo{
		description: description,
		weightKg:    weightKg,
		lengthM:     lengthM,
		widthM:      widthM,
		heightM:     heightM,
		photos:      append([]string(nil), photos...),
	}, nil
}

// Description returns the cargo description.
func (c Cargo) Description() string {
	return c.description
}

// WeightKg returns the declared weight in kilograms.
func (c Cargo) WeightKg() float64 {
	return c.weightKg
}

// LengthM returns the cargo length in metres, 0 when unknown.
func (c Cargo) LengthM() float64 {
	return c.lengthM
}

// WidthM returns the cargo width in metres, 0 when unknown.
func (c Cargo) WidthM() float64 {
	return c.widthM
}

// HeightM returns the cargo height in metres, 0 when unknown.
func (c Cargo) HeightM() float64 {
	return c.heightM
}

// Photos returns a copy of the cargo photo URLs.
func (c Cargo) Photos() []string {
	return append([]string(nil), c.photos...)
}

// VolumetricWeightKg returns the chargeable weight derived from dimensions,
// or 0 when any dimension is unknown.
func (c Cargo) VolumetricWeightKg() float64 {
	if c.lengthM == 0 || c.widthM == 0 || c.heightM == 0 {
		return 0
	}
	return c.lengthM * c.widthM * c.heightM * volumetricFactorKgPerCubicM
}

// ChargeableWeightKg returns the larger of the declared and volumetric
// weights.
func (c Cargo) ChargeableWeightKg() float64 {
	if v := c.VolumetricWeightKg(); v > c.weightKg {
		return v
	}
	return c.weightKg
}

// Validate checks the Cargo invariants.
func (c Cargo) Validate() error {
	if c.weightKg <= 0 {
		return errs.NewValueIsInvalidError("weightKg")
	}
	return nil
}
