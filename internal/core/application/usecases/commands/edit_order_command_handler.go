package commands

import (
	"context"
	"log/slog"
	"math"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
)

// EditOrderCommandHandler handles customer edits of a posted order,
// recomputing the suggested price when the route changed.
type EditOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	pricer      ports.RoutePricer
	broadcaster ports.OrderBroadcaster
	ratePerKm   float64
	log         *slog.Logger
}

// NewEditOrderCommandHandler creates a handler for order edits.
func NewEditOrderCommandHandler(
	uowFactory OrderUoWFactory,
	pricer ports.RoutePricer,
	broadcaster ports.OrderBroadcaster,
	ratePerKm float64,
	log *slog.Logger,
) EditOrderCommandHandler {
	return EditOrderCommandHandler{
		uowFactory:  uowFactory,
		pricer:      pricer,
		broadcaster: broadcaster,
		ratePerKm:   ratePerKm,
		log:         log,
	}
}

// Handle processes the edit command and broadcasts the updated snapshot,
// so the edited order appears in feeds whose filter it newly matches.
func (h *EditOrderCommandHandler) Handle(ctx context.Context, cmd EditOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Snapshot{}, err
	}

	changes := cmd.Changes()
	if changes.Pickup != nil || changes.Dropoff != nil {
		pickup, dropoff := aggregate.Pickup(), aggregate.Dropoff()
		if changes.Pickup != nil {
			pickup = *changes.Pickup
		}
		if changes.Dropoff != nil {
			dropoff = *changes.Dropoff
		}
		if price, ok := h.recomputeSystemPrice(ctx, pickup, dropoff); ok {
			changes.SystemPrice = &price
		}
	}

	if err = aggregate.Edit(cmd.CustomerID(), changes, time.Now().UTC()); err != nil {
		return order.Snapshot{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return order.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := aggregate.Snapshot()
	h.broadcaster.OrderChanged(snapshot)
	return snapshot, nil
}

func (h *EditOrderCommandHandler) recomputeSystemPrice(ctx context.Context, pickup, dropoff order.Place) (float64, bool) {
	from, to := pickup.Point(), dropoff.Point()
	if from == nil || to == nil || h.pricer == nil {
		return 0, false
	}

	distanceKm, err := h.pricer.DistanceKm(ctx, *from, *to)
	if err != nil {
		h.log.Warn("route distance unavailable, keeping previous system price",
			"error", err)
		return 0, false
	}

	return math.Round(distanceKm * h.ratePerKm), true
}
