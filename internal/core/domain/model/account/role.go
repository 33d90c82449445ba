package account

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Role describes what a principal is allowed to do in the marketplace.
// RoleBoth is a combined capability: such a user acts as a driver or as a
// customer depending on the operation. Authorization checks must therefore
// go through CanActAs rather than comparing role strings directly.
type Role string

const (
	// RoleDriver may browse, reserve and carry out orders.
	RoleDriver Role = "DRIVER"
	// RoleCustomer may post, edit and settle orders.
	RoleCustomer Role = "CUSTOMER"
	// RoleAdmin is reserved for back-office operations.
	RoleAdmin Role = "ADMIN"
	// RoleBoth combines driver and customer capabilities.
	RoleBoth Role = "BOTH"
)

// Validate checks that the role is one of the known values.
func (r Role) Validate() error {
	switch r {
	case RoleDriver, RoleCustomer, RoleAdmin, RoleBoth:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// CanActAs reports whether a principal holding this role satisfies the
// required capability. RoleBoth satisfies both RoleDriver and RoleCustomer;
// RoleAdmin only satisfies itself.
func (r Role) CanActAs(required Role) bool {
	if r == required {
		return true
	}
	if r == RoleBoth {
		return required == RoleDriver || required == RoleCustomer
	}
	return false
}

// RoleFromString parses a role from its wire representation.
func RoleFromString(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}
