package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrConfirmDriverCommandIsNotConstructed = errors.New(
	"ConfirmDriverCommand must be created via NewConfirmDriverCommand constructor",
)

// ConfirmDriverCommand represents the customer's confirmation of the
// pending candidate driver.
type ConfirmDriverCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmDriverCommand creates a command to confirm the candidate.
func NewConfirmDriverCommand(orderID, customerID kernel.UUID) (ConfirmDriverCommand, error) {
	cmd := ConfirmDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return ConfirmDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDriverCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDriverCommandIsNotConstructed)
}

// OrderID returns the pending order.
func (c ConfirmDriverCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the confirming customer.
func (c ConfirmDriverCommand) CustomerID() kernel.UUID { return c.customerID }

func (c *ConfirmDriverCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ConfirmDriverCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	c.customerID = id
	return nil
}
