package ports

import (
	"context"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
)

// AccountRepository defines the persistence contract for accounts.
type AccountRepository interface {
	// Add persists a new account.
	Add(ctx context.Context, aggregate *account.Account) error

	// Update persists changes to an existing account.
	Update(ctx context.Context, aggregate *account.Account) error

	// Get retrieves an account by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*account.Account, error)
}
