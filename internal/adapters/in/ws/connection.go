package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"freight/internal/core/domain/model/feed"
	"freight/internal/core/domain/model/order"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer bounds per-subscriber backlog; overflow drops messages.
	sendBuffer = 64
)

// pollFunc fetches snapshots updated since the given instant, already
// narrowed to the connection's filter scope.
type pollFunc func(ctx context.Context, filter feed.Filter, since time.Time) ([]order.Snapshot, error)

// Connection is one feed subscription: a WebSocket, its filter and the
// poll loop that backstops missed broadcasts.
type Connection struct {
	conn     *websocket.Conn
	filter   feed.Filter
	registry *ConnectionRegistry
	poll     pollFunc
	interval time.Duration
	log      *slog.Logger

	send      chan any
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(
	conn *websocket.Conn,
	filter feed.Filter,
	registry *ConnectionRegistry,
	poll pollFunc,
	interval time.Duration,
	log *slog.Logger,
) *Connection {
	return &Connection{
		conn:     conn,
		filter:   filter,
		registry: registry,
		poll:     poll,
		interval: interval,
		log:      log,
		send:     make(chan any, sendBuffer),
		done:     make(chan struct{}),
	}
}

// run starts the pumps and blocks until the connection dies.
func (c *Connection) run(ctx context.Context) {
	go c.writePump()
	go c.pollLoop(ctx)
	c.readPump()
}

// enqueue hands a message to the write pump without blocking. Reports
// false when the subscriber's backlog is full.
func (c *Connection) enqueue(message any) bool {
	select {
	case c.send <- message:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// close tears the connection down exactly once and removes it from the
// registry.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.registry.remove(c)
		c.conn.Close()
	})
}

// readPump consumes client frames. The feed is one-way, so reads exist
// only to process control frames and to notice the peer going away.
func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serializes all writes to the socket: queued feed messages
// and keepalive pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// pollLoop periodically re-reads recently updated orders so a subscriber
// converges even when a broadcast was dropped. Poll failures are logged
// and retried on the next tick.
func (c *Connection) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	lastPoll := time.Now().UTC()
	for {
		select {
		case <-ticker.C:
			mark := time.Now().UTC()
			snapshots, err := c.poll(ctx, c.filter, lastPoll)
			if err != nil {
				c.log.Error("feed poll failed",
					"subscriber", c.filter.SubscriberID.String(), "error", err)
				continue
			}
			lastPoll = mark

			for _, snap := range snapshots {
				if !c.enqueue(snap) {
					break
				}
			}
		case <-c.done:
			return
		case <-ctx.Done():
			c.close()
			return
		}
	}
}
