package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// CancelReservationCommandHandler releases reservation holds, putting the
// order back on the open market and announcing that on the feed.
type CancelReservationCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewCancelReservationCommandHandler creates a handler for reservation
// releases.
func NewCancelReservationCommandHandler(uowFactory OrderUoWFactory, broadcaster ports.OrderBroadcaster) CancelReservationCommandHandler {
	return CancelReservationCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the release command.
func (h *CancelReservationCommandHandler) Handle(ctx context.Context, cmd CancelReservationCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.CancelReservation(cmd.ActorID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcaster.OrderChanged(aggregate.Snapshot())
	return nil
}
