package commands

import (
	"errors"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrUpdatePriceCommandIsNotConstructed = errors.New(
	"UpdatePriceCommand must be created via NewUpdatePriceCommand constructor",
)

// UpdatePriceCommand represents a price negotiation step on a negotiable
// posting, by either side.
type UpdatePriceCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actorID   kernel.UUID
	actorRole account.Role
	value     float64

	guard guard.ConstructorGuard
}

// NewUpdatePriceCommand creates a command to propose a final price.
func NewUpdatePriceCommand(orderID, actorID kernel.UUID, actorRole account.Role, value float64) (UpdatePriceCommand, error) {
	cmd := UpdatePriceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setActorRole(actorRole),
		cmd.setValue(value),
	); err != nil {
		return UpdatePriceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdatePriceCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePriceCommandIsNotConstructed)
}

// OrderID returns the negotiable order.
func (c UpdatePriceCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns who proposes the price.
func (c UpdatePriceCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the proposing side, recorded in the audit entry.
func (c UpdatePriceCommand) ActorRole() account.Role { return c.actorRole }

// Value returns the proposed price.
func (c UpdatePriceCommand) Value() float64 { return c.value }

func (c *UpdatePriceCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *UpdatePriceCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("actorID", err)
	}
	c.actorID = id
	return nil
}

func (c *UpdatePriceCommand) setActorRole(role account.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	c.actorRole = role
	return nil
}

func (c *UpdatePriceCommand) setValue(value float64) error {
	if value <= 0 {
		return errs.NewValueIsInvalidError("value")
	}
	c.value = value
	return nil
}
