package queries

import (
	"errors"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/guard"
)

var (
	ErrGetMyOrdersQueryIsNotConstructed = errors.New(
		"GetMyOrdersQuery must be created via NewGetMyOrdersQuery constructor",
	)
)

// GetMyOrdersQuery retrieves the orders a user participates in. Customers
// see the orders they posted; drivers see orders assigned to them plus
// orders they currently hold or have applied for.
//
// Example:
//
//	query, err := NewGetMyOrdersQuery(userID, account.RoleDriver)
//	if err != nil {
//	    return err
//	}
//
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
//	fmt.Printf("%d orders in progress\n", len(response.Orders))
type GetMyOrdersQuery struct {
	userID kernel.UUID
	role   account.Role

	guard guard.ConstructorGuard
}

// NewGetMyOrdersQuery creates a query scoped to one user and the role they
// are acting in.
func NewGetMyOrdersQuery(userID kernel.UUID, role account.Role) (GetMyOrdersQuery, error) {
	query := GetMyOrdersQuery{guard: guard.NewConstructorGuard()}

	err := errors.Join(
		query.setUserID(userID),
		query.setRole(role),
	)
	if err != nil {
		return GetMyOrdersQuery{}, err
	}
	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetMyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetMyOrdersQueryIsNotConstructed)
}

// UserID returns the identifier of the user whose orders are requested.
func (q GetMyOrdersQuery) UserID() kernel.UUID {
	return q.userID
}

// Role returns the role the user is acting in for this listing.
func (q GetMyOrdersQuery) Role() account.Role {
	return q.role
}

func (q *GetMyOrdersQuery) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	q.userID = userID
	return nil
}

func (q *GetMyOrdersQuery) setRole(role account.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	q.role = role
	return nil
}

// GetMyOrdersResponse carries the snapshots of the matched orders, most
// recently updated first.
type GetMyOrdersResponse struct {
	Orders []order.Snapshot `json:"orders"`
}
