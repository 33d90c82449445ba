package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's request to post a new
// shipment order. Route endpoints, cargo and schedule arrive as already
// validated domain value objects built at the transport boundary.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	pickup     order.Place
	dropoff    order.Place
	cargo      order.Cargo
	schedule   order.Schedule
	payment    order.PaymentMethod
	price      float64

	agreedPrice bool
	insurance   bool
	loadHelp    bool
	unloadHelp  bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to post a new order. Validates
// identifiers, places and a positive price.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	pickup, dropoff order.Place,
	cargo order.Cargo,
	schedule order.Schedule,
	payment order.PaymentMethod,
	price float64,
	agreedPrice, insurance, loadHelp, unloadHelp bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setPickup(pickup),
		cmd.setDropoff(dropoff),
		cmd.setCargo(cargo),
		cmd.setPayment(payment),
		cmd.setPrice(price),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.schedule = schedule
	cmd.agreedPrice = agreedPrice
	cmd.insurance = insurance
	cmd.loadHelp = loadHelp
	cmd.unloadHelp = unloadHelp
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the posting customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// Pickup returns the pickup place.
func (c CreateOrderCommand) Pickup() order.Place { return c.pickup }

// Dropoff returns the dropoff place.
func (c CreateOrderCommand) Dropoff() order.Place { return c.dropoff }

// Cargo returns the cargo description.
func (c CreateOrderCommand) Cargo() order.Cargo { return c.cargo }

// Schedule returns the loading/unloading windows.
func (c CreateOrderCommand) Schedule() order.Schedule { return c.schedule }

// Payment returns the payment method.
func (c CreateOrderCommand) Payment() order.PaymentMethod { return c.payment }

// Price returns the asking price.
func (c CreateOrderCommand) Price() float64 { return c.price }

// AgreedPrice reports whether the price is negotiable.
func (c CreateOrderCommand) AgreedPrice() bool { return c.agreedPrice }

// Insurance reports whether the customer wants cargo insurance.
func (c CreateOrderCommand) Insurance() bool { return c.insurance }

// LoadHelp reports whether loading help is requested.
func (c CreateOrderCommand) LoadHelp() bool { return c.loadHelp }

// UnloadHelp reports whether unloading help is requested.
func (c CreateOrderCommand) UnloadHelp() bool { return c.unloadHelp }

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setPickup(p order.Place) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.pickup = p
	return nil
}

func (c *CreateOrderCommand) setDropoff(p order.Place) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.dropoff = p
	return nil
}

func (c *CreateOrderCommand) setCargo(cargo order.Cargo) error {
	if err := cargo.Validate(); err != nil {
		return err
	}
	c.cargo = cargo
	return nil
}

func (c *CreateOrderCommand) setPayment(m order.PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	c.payment = m
	return nil
}

func (c *CreateOrderCommand) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidError("price")
	}
	c.price = price
	return nil
}
