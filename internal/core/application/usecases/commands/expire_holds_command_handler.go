package commands

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/ports"
)

// ExpireHoldsCommandHandler sweeps orders whose reservation or candidate
// hold has lapsed and persists the expiry as a real write. Reads already
// treat lapsed holds as absent; the sweep exists so the change gets an
// updatedAt bump and a broadcast, letting feed subscribers converge on
// orders becoming available again.
type ExpireHoldsCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
	log         *slog.Logger
}

// NewExpireHoldsCommandHandler creates a handler for the expiry sweep.
func NewExpireHoldsCommandHandler(
	uowFactory OrderUoWFactory,
	broadcaster ports.OrderBroadcaster,
	log *slog.Logger,
) ExpireHoldsCommandHandler {
	return ExpireHoldsCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Handle runs one sweep. A failure on one order does not stop the sweep;
// the order is retried on the next run.
func (h *ExpireHoldsCommandHandler) Handle(ctx context.Context, cmd ExpireHoldsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	orderRepo := uow.OrderRepository()
	lapsed, err := orderRepo.GetWithLapsedHolds(ctx, now)
	if err != nil {
		return err
	}

	changed := lapsed[:0]
	for _, aggregate := range lapsed {
		expired, err := aggregate.ExpireHolds(now)
		if err != nil {
			h.log.Warn("skipping order in expiry sweep",
				"orderId", aggregate.ID().String(), "error", err)
			continue
		}
		if !expired {
			continue
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}
		changed = append(changed, aggregate)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, aggregate := range changed {
		h.broadcaster.OrderChanged(aggregate.Snapshot())
	}
	return nil
}
