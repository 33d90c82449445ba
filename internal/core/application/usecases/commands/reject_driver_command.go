package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRejectDriverCommandIsNotConstructed = errors.New(
	"RejectDriverCommand must be created via NewRejectDriverCommand constructor",
)

// RejectDriverCommand represents the customer turning the pending
// candidate driver down, re-listing the order.
type RejectDriverCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectDriverCommand creates a command to reject the candidate.
func NewRejectDriverCommand(orderID, customerID kernel.UUID) (RejectDriverCommand, error) {
	cmd := RejectDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return RejectDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectDriverCommand) Validate() error {
	return c.guard.Validate(ErrRejectDriverCommandIsNotConstructed)
}

// OrderID returns the pending order.
func (c RejectDriverCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the rejecting customer.
func (c RejectDriverCommand) CustomerID() kernel.UUID { return c.customerID }

func (c *RejectDriverCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *RejectDriverCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	c.customerID = id
	return nil
}
