// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work spans one business operation: it owns the
// database transaction and hands out repositories bound to it, so order,
// ledger and account writes land atomically or not at all.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each Create call returns a fresh instance; concurrent operations must
// not share one. Rollback after a successful commit is a no-op, which
// makes the deferred rollback pattern safe.
package postgres

import (
	"context"

	"freight/internal/adapters/out/postgres/accountrepo"
	"freight/internal/adapters/out/postgres/ledgerrepo"
	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of
// work, recorded for post-commit processing such as feed broadcasts.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM
// connection pool. Each business operation gets a fresh instance with its
// own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready to begin a transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates modified within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates the database transaction. Calling Begin twice on the
// same instance is safe and does not nest transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Calling it when no transaction is open, as a deferred cleanup after a
// successful commit does, is a no-op.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current
// transaction, or to the main connection when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// AccountRepository returns an account repository bound to the current
// transaction, or to the main connection when none is open.
func (uow *GormUnitOfWork) AccountRepository() ports.AccountRepository {
	return accountrepo.NewGormAccountRepository(uow.conn(), uow)
}

// LedgerRepository returns a ledger repository bound to the current
// transaction, or to the main connection when none is open.
func (uow *GormUnitOfWork) LedgerRepository() ports.LedgerRepository {
	return ledgerrepo.NewGormLedgerRepository(uow.conn(), uow)
}

// TrackAggregate registers a domain aggregate as modified within this
// unit of work. Repository implementations call it on every add or
// update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// Command handlers declare the narrowest unit of work grouping they need.
// The adapters below bind the general factory to those groupings; the
// full ports.UnitOfWork satisfies every one of them.
type (
	// OrderUoWFactory creates units of work for order-only operations.
	OrderUoWFactory struct{ inner *GormUnitOfWorkFactory }

	// ReservationUoWFactory creates units of work for reservation
	// operations that also read accounts.
	ReservationUoWFactory struct{ inner *GormUnitOfWorkFactory }

	// AssignmentUoWFactory creates units of work for driver assignment
	// operations that also open escrow transactions.
	AssignmentUoWFactory struct{ inner *GormUnitOfWorkFactory }

	// SettlementUoWFactory creates units of work for completion
	// settlement across orders, ledger and accounts.
	SettlementUoWFactory struct{ inner *GormUnitOfWorkFactory }
)

// NewOrderUoWFactory binds the factory to the order-only grouping.
func NewOrderUoWFactory(inner *GormUnitOfWorkFactory) OrderUoWFactory {
	return OrderUoWFactory{inner: inner}
}

// Create produces a unit of work for an order-only operation.
func (f OrderUoWFactory) Create() commands.OrderUoW {
	return f.inner.Create()
}

// NewReservationUoWFactory binds the factory to the reservation grouping.
func NewReservationUoWFactory(inner *GormUnitOfWorkFactory) ReservationUoWFactory {
	return ReservationUoWFactory{inner: inner}
}

// Create produces a unit of work for a reservation operation.
func (f ReservationUoWFactory) Create() commands.ReservationUoW {
	return f.inner.Create()
}

// NewAssignmentUoWFactory binds the factory to the assignment grouping.
func NewAssignmentUoWFactory(inner *GormUnitOfWorkFactory) AssignmentUoWFactory {
	return AssignmentUoWFactory{inner: inner}
}

// Create produces a unit of work for a driver assignment operation.
func (f AssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f.inner.Create()
}

// NewSettlementUoWFactory binds the factory to the settlement grouping.
func NewSettlementUoWFactory(inner *GormUnitOfWorkFactory) SettlementUoWFactory {
	return SettlementUoWFactory{inner: inner}
}

// Create produces a unit of work for a completion settlement.
func (f SettlementUoWFactory) Create() commands.SettlementUoW {
	return f.inner.Create()
}
