package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrReserveOrderCommandIsNotConstructed = errors.New(
	"ReserveOrderCommand must be created via NewReserveOrderCommand constructor",
)

// ReserveOrderCommand represents a driver's request for a short exclusive
// hold on an order, disclosing the customer's contact details. On
// negotiable postings the driver may propose a final price in the same
// action.
type ReserveOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	driverID   kernel.UUID
	finalPrice *float64

	guard guard.ConstructorGuard
}

// NewReserveOrderCommand creates a command to reserve an order.
// finalPrice is optional; when given it must be positive.
func NewReserveOrderCommand(orderID, driverID kernel.UUID, finalPrice *float64) (ReserveOrderCommand, error) {
	cmd := ReserveOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setFinalPrice(finalPrice),
	); err != nil {
		return ReserveOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReserveOrderCommand) Validate() error {
	return c.guard.Validate(ErrReserveOrderCommandIsNotConstructed)
}

// OrderID returns the order to reserve.
func (c ReserveOrderCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the reserving driver.
func (c ReserveOrderCommand) DriverID() kernel.UUID { return c.driverID }

// FinalPrice returns the driver's price proposal, nil when none.
func (c ReserveOrderCommand) FinalPrice() *float64 { return c.finalPrice }

func (c *ReserveOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ReserveOrderCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	c.driverID = id
	return nil
}

func (c *ReserveOrderCommand) setFinalPrice(price *float64) error {
	if price != nil && *price <= 0 {
		return errs.NewValueIsInvalidError("finalPrice")
	}
	c.finalPrice = price
	return nil
}
