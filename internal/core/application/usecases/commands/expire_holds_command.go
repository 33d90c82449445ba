package commands

import (
	"errors"

	"freight/internal/pkg/guard"
)

var ErrExpireHoldsCommandIsNotConstructed = errors.New(
	"ExpireHoldsCommand must be created via NewExpireHoldsCommand constructor",
)

// ExpireHoldsCommand triggers one sweep over orders with lapsed holds.
// Carries no parameters; the sweep always works against the current time.
type ExpireHoldsCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireHoldsCommand creates a command to sweep lapsed holds.
func NewExpireHoldsCommand() ExpireHoldsCommand {
	return ExpireHoldsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ExpireHoldsCommand) Validate() error {
	return c.guard.Validate(ErrExpireHoldsCommandIsNotConstructed)
}
