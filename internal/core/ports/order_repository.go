package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using
	// optimistic concurrency: the write succeeds only if the stored
	// version still matches the aggregate's loaded version, and bumps it.
	// A mismatch returns a version conflict error.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete permanently removes an order. The caller is responsible for
	// checking the deletion invariants first.
	Delete(ctx context.Context, id kernel.UUID) error

	// GetAllInStatus retrieves all orders resting in the given status.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetByCustomer retrieves all orders posted by the customer, newest
	// first.
	GetByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)

	// GetByDriver retrieves all orders assigned to the driver, newest
	// first.
	GetByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// GetUpdatedSince retrieves orders whose last modification is after
	// the given instant. Used by the feed's poll-driven catch-up.
	GetUpdatedSince(ctx context.Context, since time.Time) ([]*order.Order, error)

	// GetWithLapsedHolds retrieves orders carrying a reservation or
	// candidate hold whose deadline has passed. Used by the expiry sweep.
	GetWithLapsedHolds(ctx context.Context, now time.Time) ([]*order.Order, error)
}
