// Package ws serves the realtime order feed over WebSocket. Every
// connection carries its own filter; order mutations are fanned out to
// matching subscribers the moment they commit, and a periodic
// updated-since poll catches anything a broadcast missed.
package ws

import (
	"log/slog"
	"sync"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// ConnectionRegistry tracks live feed connections and implements the
// broadcaster port. Fan-out never blocks the caller: a subscriber that
// cannot keep up loses messages, not the marketplace.
type ConnectionRegistry struct {
	mu          sync.RWMutex
	connections map[*Connection]struct{}
	log         *slog.Logger
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry(log *slog.Logger) *ConnectionRegistry {
	return &ConnectionRegistry{
		connections: make(map[*Connection]struct{}),
		log:         log.With("component", "feed"),
	}
}

// OrderChanged announces a created or mutated order to every subscriber
// whose filter scope covers it. Scope matching alone decides delivery so
// subscribers also see an in-scope order being claimed or completed and
// can retire it from their view.
func (r *ConnectionRegistry) OrderChanged(snapshot order.Snapshot) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for conn := range r.connections {
		if !conn.filter.MatchesScope(snapshot) {
			continue
		}
		if !conn.enqueue(snapshot) {
			r.log.Warn("feed subscriber is too slow, dropping update",
				"subscriber", conn.filter.SubscriberID.String(),
				"orderId", snapshot.ID)
		}
	}
}

// OrderDeleted announces a hard-deleted order to every subscriber. The
// marker goes to everyone because the deleted order's scope is gone with
// it.
func (r *ConnectionRegistry) OrderDeleted(id kernel.UUID) {
	marker := order.DeletionMarker{ID: id.String(), Deleted: true}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for conn := range r.connections {
		if !conn.enqueue(marker) {
			r.log.Warn("feed subscriber is too slow, dropping deletion marker",
				"subscriber", conn.filter.SubscriberID.String(),
				"orderId", marker.ID)
		}
	}
}

// Count returns the number of live connections.
func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

func (r *ConnectionRegistry) add(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn] = struct{}{}
}

func (r *ConnectionRegistry) remove(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.connections, conn)
}
