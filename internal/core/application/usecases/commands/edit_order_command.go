package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrEditOrderCommandIsNotConstructed = errors.New(
	"EditOrderCommand must be created via NewEditOrderCommand constructor",
)

// EditOrderCommand represents a customer's request to change a posted
// order. Only non-nil fields of Changes are applied.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	changes    order.Changes

	guard guard.ConstructorGuard
}

// NewEditOrderCommand creates a command to edit an order posting.
func NewEditOrderCommand(orderID, customerID kernel.UUID, changes order.Changes) (EditOrderCommand, error) {
	cmd := EditOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return EditOrderCommand{}, err
	}

	cmd.changes = changes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

// OrderID returns the order to edit.
func (c EditOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the acting customer.
func (c EditOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// Changes returns the requested field changes.
func (c EditOrderCommand) Changes() order.Changes { return c.changes }

func (c *EditOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *EditOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	c.customerID = id
	return nil
}
