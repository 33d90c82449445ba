package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/feed"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/guard"
)

var (
	ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
		"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
	)
)

// GetAvailableOrdersQuery retrieves open orders matching a driver's feed
// filter. Without an updated-since mark it returns the orders the driver
// could take right now. With the mark it returns every in-scope order
// touched after that instant, including ones that just became unavailable,
// so pollers can both surface new work and retire stale entries.
//
// Example:
//
//	query, err := NewGetAvailableOrdersQuery(filter, nil)
//	if err != nil {
//	    return err
//	}
//
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load feed: %w", err)
//	}
//	fmt.Printf("%d orders available\n", len(response.Orders))
type GetAvailableOrdersQuery struct {
	filter       feed.Filter
	updatedSince *time.Time

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates a feed query for one subscriber.
// The filter must carry the subscriber's identity; updatedSince is
// optional and switches the query into incremental mode.
func NewGetAvailableOrdersQuery(filter feed.Filter, updatedSince *time.Time) (GetAvailableOrdersQuery, error) {
	query := GetAvailableOrdersQuery{guard: guard.NewConstructorGuard()}

	if err := query.setFilter(filter); err != nil {
		return GetAvailableOrdersQuery{}, err
	}
	if updatedSince != nil {
		since := *updatedSince
		query.updatedSince = &since
	}
	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// Filter returns the subscriber's feed filter.
func (q GetAvailableOrdersQuery) Filter() feed.Filter {
	return q.filter
}

// UpdatedSince returns the incremental mark, or nil for a full listing.
func (q GetAvailableOrdersQuery) UpdatedSince() *time.Time {
	return q.updatedSince
}

func (q *GetAvailableOrdersQuery) setFilter(filter feed.Filter) error {
	if err := filter.SubscriberID.Validate(); err != nil {
		return err
	}
	q.filter = filter
	return nil
}

// GetAvailableOrdersResponse carries the snapshots matching the filter.
type GetAvailableOrdersResponse struct {
	Orders []order.Snapshot `json:"orders"`
}
