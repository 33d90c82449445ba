package queries

import (
	"context"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetMyOrdersQueryHandler lists the orders a user participates in. The
// customer scope matches ownership; the driver scope matches assignment
// and any live reservation or application, so a driver keeps seeing an
// order from first hold to completion.
type GetMyOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetMyOrdersQueryHandler creates a handler for per-user order listings.
func NewGetMyOrdersQueryHandler(db *gorm.DB) GetMyOrdersQueryHandler {
	return GetMyOrdersQueryHandler{db: db}
}

// Handle executes the listing. Users registered for both sides of the
// marketplace get the union of the customer and driver scopes.
func (h GetMyOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetMyOrdersQuery,
) (GetMyOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return GetMyOrdersResponse{}, err
	}

	userID := query.UserID().String()

	var conditions string
	args := []any{userID}
	switch {
	case query.Role().CanActAs(account.RoleCustomer) && query.Role().CanActAs(account.RoleDriver):
		conditions = `customer_id = ? OR driver_id = ? OR reserved_by = ? OR candidate_driver_id = ?`
		args = []any{userID, userID, userID, userID}
	case query.Role().CanActAs(account.RoleDriver):
		conditions = `driver_id = ? OR reserved_by = ? OR candidate_driver_id = ?`
		args = []any{userID, userID, userID}
	default:
		conditions = `customer_id = ?`
	}

	var rows []orderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT *
		FROM orders
		WHERE `+conditions+`
		ORDER BY updated_at DESC
	`, args...).Scan(&rows)
	if result.Error != nil {
		return GetMyOrdersResponse{}, result.Error
	}

	response := GetMyOrdersResponse{Orders: make([]order.Snapshot, 0, len(rows))}
	for _, row := range rows {
		snap, err := row.snapshot()
		if err != nil {
			return GetMyOrdersResponse{}, err
		}
		response.Orders = append(response.Orders, snap)
	}

	return response, nil
}
