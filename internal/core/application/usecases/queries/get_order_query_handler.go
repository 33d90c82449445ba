package queries

import (
	"context"

	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order straight from the database,
// bypassing the aggregate. The returned snapshot is the same shape the
// realtime feed pushes, so API clients see one representation everywhere.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns ObjectNotFoundError when no order
// with the given identifier exists.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	var row orderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT *
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Scan(&row)
	if result.Error != nil {
		return order.Snapshot{}, result.Error
	}
	if result.RowsAffected == 0 {
		return order.Snapshot{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	return row.snapshot()
}
