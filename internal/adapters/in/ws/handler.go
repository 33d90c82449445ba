package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"freight/internal/adapters/in/auth"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/feed"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Handler upgrades feed subscriptions. The token is verified before the
// upgrade; the initial burst of available orders is written before the
// connection joins the broadcast registry, so the client never sees a
// gap between catch-up and live events.
type Handler struct {
	registry      *ConnectionRegistry
	authenticator *auth.Authenticator
	accounts      ports.AccountRepository
	available     queries.GetAvailableOrdersQueryHandler
	pollInterval  time.Duration
	upgrader      websocket.Upgrader
	log           *slog.Logger
}

// NewHandler creates the feed endpoint handler.
func NewHandler(
	registry *ConnectionRegistry,
	authenticator *auth.Authenticator,
	accounts ports.AccountRepository,
	available queries.GetAvailableOrdersQueryHandler,
	pollInterval time.Duration,
	log *slog.Logger,
) *Handler {
	return &Handler{
		registry:      registry,
		authenticator: authenticator,
		accounts:      accounts,
		available:     available,
		pollInterval:  pollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser clients connect from arbitrary origins; access
			// control happens via the bearer token instead.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.With("component", "feed"),
	}
}

// Subscribe handles GET /ws/orders.
func (h *Handler) Subscribe(c echo.Context) error {
	identity, err := h.authenticator.Verify(bearerToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	// A caller without a provisioned account is fine (they get one on
	// their first REST call); a blocked one is not.
	caller, err := h.accounts.Get(c.Request().Context(), identity.UserID)
	if err == nil && caller.Blocked() {
		return echo.NewHTTPError(http.StatusForbidden, "account is blocked")
	}
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	filter := ParseFilter(c.QueryParams(), identity.UserID)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.sendInitialBurst(ctx, conn, filter); err != nil {
		conn.Close()
		return nil
	}

	connection := newConnection(conn, filter, h.registry, h.pollScoped, h.pollInterval, h.log)
	h.registry.add(connection)

	// Detach from the request context: the subscription outlives the
	// upgrade request.
	connection.run(context.WithoutCancel(ctx))
	return nil
}

// sendInitialBurst writes every currently available matching order.
func (h *Handler) sendInitialBurst(ctx context.Context, conn *websocket.Conn, filter feed.Filter) error {
	query, err := queries.NewGetAvailableOrdersQuery(filter, nil)
	if err != nil {
		return err
	}

	response, err := h.available.Handle(ctx, query)
	if err != nil {
		h.log.Error("initial feed burst failed",
			"subscriber", filter.SubscriberID.String(), "error", err)
		return err
	}

	for _, snap := range response.Orders {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snap); err != nil {
			return err
		}
	}
	return nil
}

// pollScoped adapts the available-orders query to the connection's poll
// loop.
func (h *Handler) pollScoped(ctx context.Context, filter feed.Filter, since time.Time) ([]order.Snapshot, error) {
	query, err := queries.NewGetAvailableOrdersQuery(filter, &since)
	if err != nil {
		return nil, err
	}

	response, err := h.available.Handle(ctx, query)
	if err != nil {
		return nil, err
	}
	return response.Orders, nil
}

// bearerToken extracts the token from the Authorization header or, for
// browser WebSocket clients that cannot set headers, the token query
// parameter.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return c.QueryParam("token")
}
