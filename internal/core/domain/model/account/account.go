package account

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var (
	// ErrAccountIsNotConstructed is returned when an Account instance was
	// not created through NewAccount or RestoreAccount.
	ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount or RestoreAccount")

	// ErrInsufficientBalance is returned when a debit would take the
	// balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Account is a marketplace principal: a customer posting orders, a driver
// carrying them out, or a user doing both. It carries the driver-side
// escrow balance credited at order completion.
//
// Invariants:
//   - must have a valid identifier, a non-empty name and a valid role
//   - balance never goes negative
//   - blocked accounts are rejected at the transport boundary before any
//     operation reaches the core
type Account struct {
	id      kernel.UUID
	name    string
	phone   string
	city    string
	role    Role
	blocked bool
	balance float64

	isConstructed bool
}

// NewAccount creates a new Account with a zero balance.
func NewAccount(id kernel.UUID, name, phone string, role Role) (*Account, error) {
	a := &Account{
		isConstructed: true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setRole(role),
	); err != nil {
		return nil, err
	}

	a.phone = phone
	return a, nil
}

// RestoreAccount reconstructs an Account from persistence.
func RestoreAccount(
	id kernel.UUID, name, phone, city string, role Role, blocked bool, balance float64,
) (*Account, error) {
	a, err := NewAccount(id, name, phone, role)
	if err != nil {
		return nil, err
	}

	a.city = city
	a.blocked = blocked
	a.balance = balance
	return a, nil
}

// Validate ensures the Account was created via a constructor.
func (a *Account) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAccountIsNotConstructed
	}
	return nil
}

// ID returns the account identifier.
func (a *Account) ID() kernel.UUID {
	return a.id
}

// Name returns the display name.
func (a *Account) Name() string {
	return a.name
}

// Phone returns the contact phone number. It is disclosed to a driver only
// through an active reservation hold.
func (a *Account) Phone() string {
	return a.phone
}

// City returns the home city, if any.
func (a *Account) City() string {
	return a.city
}

// Role returns the account role.
func (a *Account) Role() Role {
	return a.role
}

// Blocked reports whether the account is barred from the marketplace.
func (a *Account) Blocked() bool {
	return a.blocked
}

// Balance returns the current escrow balance.
func (a *Account) Balance() float64 {
	return a.balance
}

// CanActAs reports whether this account satisfies the required capability.
func (a *Account) CanActAs(required Role) bool {
	return a.role.CanActAs(required)
}

// Credit adds a settled amount to the balance. Amount must be positive.
func (a *Account) Credit(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}

	a.balance += amount
	return nil
}

// Debit withdraws from the balance, failing with ErrInsufficientBalance if
// the amount exceeds the available funds.
func (a *Account) Debit(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}
	if amount > a.balance {
		return ErrInsufficientBalance
	}

	a.balance -= amount
	return nil
}

func (a *Account) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Account) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

func (a *Account) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	a.role = role
	return nil
}
