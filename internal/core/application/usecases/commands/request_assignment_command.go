package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRequestAssignmentCommandIsNotConstructed = errors.New(
	"RequestAssignmentCommand must be created via NewRequestAssignmentCommand constructor",
)

// RequestAssignmentCommand represents a driver's formal request to be
// assigned to an order, moving it to PENDING until the customer decides.
type RequestAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestAssignmentCommand creates a command to request assignment.
func NewRequestAssignmentCommand(orderID, driverID kernel.UUID) (RequestAssignmentCommand, error) {
	cmd := RequestAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return RequestAssignmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRequestAssignmentCommandIsNotConstructed)
}

// OrderID returns the order the driver wants.
func (c RequestAssignmentCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the requesting driver.
func (c RequestAssignmentCommand) DriverID() kernel.UUID { return c.driverID }

func (c *RequestAssignmentCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *RequestAssignmentCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	c.driverID = id
	return nil
}
