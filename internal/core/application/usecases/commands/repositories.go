// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, persistence and, for order mutations, a feed
// broadcast after the transaction commits.
package commands

import (
	"context"

	"freight/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Handlers declare the narrowest grouping they need.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AccountRepoFactory provides access to the account repository within
	// a transaction.
	AccountRepoFactory interface {
		AccountRepository() ports.AccountRepository
	}

	// LedgerRepoFactory provides access to the ledger repository within a
	// transaction.
	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ReservationUoW manages transactions for operations that read the
	// customer account while mutating the order, such as contact
	// disclosure at reservation time.
	ReservationUoW interface {
		TxManager
		OrderRepoFactory
		AccountRepoFactory
	}

	// ReservationUoWFactory creates new reservation unit of work
	// instances.
	ReservationUoWFactory interface {
		Create() ReservationUoW
	}

	// AssignmentUoW manages transactions that bind a driver to an order
	// and open the escrow transaction.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		LedgerRepoFactory
	}

	// AssignmentUoWFactory creates new assignment unit of work instances.
	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// SettlementUoW manages transactions that release escrow to the
	// driver's balance at completion.
	SettlementUoW interface {
		TxManager
		OrderRepoFactory
		LedgerRepoFactory
		AccountRepoFactory
	}

	// SettlementUoWFactory creates new settlement unit of work instances.
	SettlementUoWFactory interface {
		Create() SettlementUoW
	}
)
