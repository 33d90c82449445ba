package commands

import (
	"context"
	"log/slog"
	"math"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for posting a new
// shipment order: computing the platform's suggested price from the route
// distance, enforcing the configured price band and announcing the new
// order on the realtime feed.
type CreateOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	pricer       ports.RoutePricer
	broadcaster  ports.OrderBroadcaster
	ratePerKm    float64
	priceBandPct float64
	log          *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order posting.
// ratePerKm converts route distance into the suggested price;
// priceBandPct is the maximum allowed divergence of the customer's price
// from that suggestion, in percent (0 disables the check).
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	pricer ports.RoutePricer,
	broadcaster ports.OrderBroadcaster,
	ratePerKm, priceBandPct float64,
	log *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:   uowFactory,
		pricer:       pricer,
		broadcaster:  broadcaster,
		ratePerKm:    ratePerKm,
		priceBandPct: priceBandPct,
		log:          log,
	}
}

// Handle processes the order posting command. A routing failure degrades
// to an unknown system price rather than failing the posting.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	systemPrice := h.systemPrice(ctx, cmd.Pickup(), cmd.Dropoff())
	if err := h.checkPriceBand(cmd.Price(), systemPrice); err != nil {
		return order.Snapshot{}, err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(),
		cmd.Pickup(), cmd.Dropoff(),
		cmd.Cargo(), cmd.Schedule(), cmd.Payment(),
		cmd.Price(), systemPrice,
		cmd.AgreedPrice(), cmd.Insurance(), cmd.LoadHelp(), cmd.UnloadHelp(),
		time.Now().UTC(),
	)
	if err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return order.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := newOrder.Snapshot()
	h.broadcaster.OrderChanged(snapshot)
	return snapshot, nil
}

// systemPrice derives the suggested price from the road distance between
// the route endpoints. Missing coordinates or a routing failure yield 0.
func (h *CreateOrderCommandHandler) systemPrice(ctx context.Context, pickup, dropoff order.Place) float64 {
	from, to := pickup.Point(), dropoff.Point()
	if from == nil || to == nil || h.pricer == nil {
		return 0
	}

	distanceKm, err := h.pricer.DistanceKm(ctx, *from, *to)
	if err != nil {
		h.log.Warn("route distance unavailable, posting without system price",
			"error", err)
		return 0
	}

	return math.Round(distanceKm * h.ratePerKm)
}

func (h *CreateOrderCommandHandler) checkPriceBand(price, systemPrice float64) error {
	if h.priceBandPct <= 0 || systemPrice <= 0 {
		return nil
	}

	band := systemPrice * h.priceBandPct / 100
	if math.Abs(price-systemPrice) > band {
		return errs.NewValueIsOutOfRangeError("price", price,
			systemPrice-band, systemPrice+band)
	}
	return nil
}
