package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/ledger"
)

// LedgerRepository defines the persistence contract for escrow
// transactions.
type LedgerRepository interface {
	// Add persists a newly opened transaction.
	Add(ctx context.Context, aggregate *ledger.Transaction) error

	// Update persists changes to an existing transaction.
	Update(ctx context.Context, aggregate *ledger.Transaction) error

	// GetPendingByOrder retrieves the PENDING transaction opened for the
	// order, or a not-found error when none exists.
	GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*ledger.Transaction, error)
}
