package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// MarkDeliveredCommandHandler handles the delivery report of the
// assigned driver. Settlement waits for the customer's completion.
type MarkDeliveredCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewMarkDeliveredCommandHandler creates a handler for delivery reports.
func NewMarkDeliveredCommandHandler(uowFactory OrderUoWFactory, broadcaster ports.OrderBroadcaster) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the delivery report.
func (h *MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) error {
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

	if err = aggregate.MarkDelivered(cmd.DriverID(), time.Now().UTC(), cmd.Photo()); err != nil {
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
