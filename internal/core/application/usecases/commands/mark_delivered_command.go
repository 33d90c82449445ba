package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand represents the assigned driver reporting delivery,
// optionally with a proof-of-delivery photo.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	photo    string

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a command to report delivery.
func NewMarkDeliveredCommand(orderID, driverID kernel.UUID, photo string) (MarkDeliveredCommand, error) {
	cmd := MarkDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return MarkDeliveredCommand{}, err
	}

	cmd.photo = photo
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c MarkDeliveredCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the reporting driver.
func (c MarkDeliveredCommand) DriverID() kernel.UUID { return c.driverID }

// Photo returns the proof-of-delivery photo URL, empty when none.
func (c MarkDeliveredCommand) Photo() string { return c.photo }

func (c *MarkDeliveredCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *MarkDeliveredCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	c.driverID = id
	return nil
}
