package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// RejectDriverCommandHandler handles candidate rejections, returning the
// order to the open market.
type RejectDriverCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewRejectDriverCommandHandler creates a handler for candidate
// rejections.
func NewRejectDriverCommandHandler(uowFactory OrderUoWFactory, broadcaster ports.OrderBroadcaster) RejectDriverCommandHandler {
	return RejectDriverCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the rejection command.
func (h *RejectDriverCommandHandler) Handle(ctx context.Context, cmd RejectDriverCommand) error {
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

	if err = aggregate.RejectDriver(cmd.CustomerID(), time.Now().UTC()); err != nil {
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
