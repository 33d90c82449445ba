package order

import (
	"time"

	"freight/internal/pkg/errs"
)

// Schedule holds the optional loading and unloading time windows of an
// order. Zero times mean the window edge is open.
type Schedule struct {
	loadFrom   time.Time
	loadTo     time.Time
	unloadFrom time.Time
	unloadTo   time.Time
}

// NewSchedule creates a Schedule. Each window, when both edges are given,
// must be correctly ordered; the unload window may not close before the
// load window opens.
func NewSchedule(loadFrom, loadTo, unloadFrom, unloadTo time.Time) (Schedule, error) {
	if !loadFrom.IsZero() && !loadTo.IsZero() && loadTo.Before(loadFrom) {
		return Schedule{}, errs.NewValueIsInvalidError("loadWindow")
	}
	if !unloadFrom.IsZero() && !unloadTo.IsZero() && unloadTo.Before(unloadFrom) {
		return Schedule{}, errs.NewValueIsInvalidError("unloadWindow")
	}
	if !loadFrom.IsZero() && !unloadTo.IsZero() && unloadTo.Before(loadFrom) {
		return Schedule{}, errs.NewValueIsInvalidError("unloadWindow")
	}

	return Schedule{
		loadFrom:   loadFrom,
		loadTo:     loadTo,
		unloadFrom: unloadFrom,
		unloadTo:   unloadTo,
	}, nil
}

// LoadFrom returns the earliest loading time, zero when open.
func (s Schedule) LoadFrom() time.Time { return s.loadFrom }

// LoadTo returns the latest loading time, zero when open.
func (s Schedule) LoadTo() time.Time { return s.loadTo }

// UnloadFrom returns the earliest unloading time, zero when open.
func (s Schedule) UnloadFrom() time.Time { return s.unloadFrom }

// UnloadTo returns the latest unloading time, zero when open.
func (s Schedule) UnloadTo() time.Time { return s.unloadTo }

// PaymentMethod is how the customer intends to pay the driver.
type PaymentMethod string

const (
	// PaymentCash means settlement in cash on delivery.
	PaymentCash PaymentMethod = "CASH"
	// PaymentCard means card payment through the platform.
	PaymentCard PaymentMethod = "CARD"
)

// Validate checks that the payment method is known. An empty method is
// allowed and means unspecified.
func (m PaymentMethod) Validate() error {
	switch m {
	case "", PaymentCash, PaymentCard:
		return nil
	default:
		return errs.NewValueIsInvalidError("paymentMethod")
	}
}
