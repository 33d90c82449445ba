package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand represents a driver's binding claim on an order,
// skipping the customer confirmation round-trip. On negotiable postings
// the driver may propose a final price in the same action.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	driverID   kernel.UUID
	finalPrice *float64

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command to accept an order directly.
// finalPrice is optional; when given it must be positive.
func NewAcceptOrderCommand(orderID, driverID kernel.UUID, finalPrice *float64) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setFinalPrice(finalPrice),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderID returns the order to accept.
func (c AcceptOrderCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the accepting driver.
func (c AcceptOrderCommand) DriverID() kernel.UUID { return c.driverID }

// FinalPrice returns the driver's price proposal, nil when none.
func (c AcceptOrderCommand) FinalPrice() *float64 { return c.finalPrice }

func (c *AcceptOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *AcceptOrderCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	c.driverID = id
	return nil
}

func (c *AcceptOrderCommand) setFinalPrice(price *float64) error {
	if price != nil && *price <= 0 {
		return errs.NewValueIsInvalidError("finalPrice")
	}
	c.finalPrice = price
	return nil
}
