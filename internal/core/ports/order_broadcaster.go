package ports

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// OrderBroadcaster fans order mutations out to realtime feed subscribers.
// Implementations must never block the mutation path and must isolate
// per-subscriber delivery failures.
type OrderBroadcaster interface {
	// OrderChanged announces a created or mutated order.
	OrderChanged(snapshot order.Snapshot)

	// OrderDeleted announces a hard-deleted order.
	OrderDeleted(id kernel.UUID)
}
