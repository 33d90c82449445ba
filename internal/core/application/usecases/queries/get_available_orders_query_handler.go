package queries

import (
	"context"
	"time"

	"freight/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler feeds drivers the orders they can take.
// The database narrows candidates by status or recency; the geometry and
// scope predicates run in memory against the snapshots, matching exactly
// what the realtime feed applies on broadcast.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for feed listings.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the feed query. In full mode only claimable orders pass;
// in incremental mode scope matching alone decides, so subscribers also
// learn about in-scope orders that were just claimed or completed.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) (GetAvailableOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAvailableOrdersResponse{}, err
	}

	var (
		rows   []orderRow
		result *gorm.DB
	)
	if since := query.UpdatedSince(); since != nil {
		result = h.db.WithContext(ctx).Raw(`
			SELECT *
			FROM orders
			WHERE updated_at > ?
			ORDER BY updated_at
		`, *since).Scan(&rows)
	} else {
		result = h.db.WithContext(ctx).Raw(`
			SELECT *
			FROM orders
			WHERE status IN (?, ?)
			ORDER BY created_at DESC
		`, string(order.StatusCreated), string(order.StatusPending)).Scan(&rows)
	}
	if result.Error != nil {
		return GetAvailableOrdersResponse{}, result.Error
	}

	now := time.Now().UTC()
	filter := query.Filter()
	incremental := query.UpdatedSince() != nil

	response := GetAvailableOrdersResponse{Orders: make([]order.Snapshot, 0, len(rows))}
	for _, row := range rows {
		snap, err := row.snapshot()
		if err != nil {
			return GetAvailableOrdersResponse{}, err
		}

		if incremental {
			if !filter.MatchesScope(snap) {
				continue
			}
		} else if !filter.MatchesAvailable(snap, now) {
			continue
		}
		response.Orders = append(response.Orders, snap)
	}

	return response, nil
}
