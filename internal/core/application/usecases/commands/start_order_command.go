package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrStartOrderCommandIsNotConstructed = errors.New(
	"StartOrderCommand must be created via NewStartOrderCommand constructor",
)

// StartOrderCommand represents the assigned driver reporting cargo
// pickup, optionally with a photo.
type StartOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	photo    string

	guard guard.ConstructorGuard
}

// NewStartOrderCommand creates a command to report pickup.
func NewStartOrderCommand(orderID, driverID kernel.UUID, photo string) (StartOrderCommand, error) {
	cmd := StartOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return StartOrderCommand{}, err
	}

	cmd.photo = photo
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartOrderCommand) Validate() error {
	return c.guard.Validate(ErrStartOrderCommandIsNotConstructed)
}

// OrderID returns the order being started.
func (c StartOrderCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the reporting driver.
func (c StartOrderCommand) DriverID() kernel.UUID { return c.driverID }

// Photo returns the pickup photo URL, empty when none.
func (c StartOrderCommand) Photo() string { return c.photo }

func (c *StartOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *StartOrderCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	c.driverID = id
	return nil
}
