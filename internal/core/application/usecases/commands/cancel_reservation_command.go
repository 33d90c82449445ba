package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCancelReservationCommandIsNotConstructed = errors.New(
	"CancelReservationCommand must be created via NewCancelReservationCommand constructor",
)

// CancelReservationCommand represents a request to release a reservation
// hold, either by the holding driver or by the order's customer.
type CancelReservationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelReservationCommand creates a command to release a reservation.
func NewCancelReservationCommand(orderID, actorID kernel.UUID) (CancelReservationCommand, error) {
	cmd := CancelReservationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
	); err != nil {
		return CancelReservationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelReservationCommand) Validate() error {
	return c.guard.Validate(ErrCancelReservationCommandIsNotConstructed)
}

// OrderID returns the reserved order.
func (c CancelReservationCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns who requests the release.
func (c CancelReservationCommand) ActorID() kernel.UUID { return c.actorID }

func (c *CancelReservationCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CancelReservationCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("actorID", err)
	}
	c.actorID = id
	return nil
}
