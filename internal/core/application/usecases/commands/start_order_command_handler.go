package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// StartOrderCommandHandler handles the pickup report of the assigned
// driver.
type StartOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewStartOrderCommandHandler creates a handler for pickup reports.
func NewStartOrderCommandHandler(uowFactory OrderUoWFactory, broadcaster ports.OrderBroadcaster) StartOrderCommandHandler {
	return StartOrderCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the pickup report.
func (h *StartOrderCommandHandler) Handle(ctx context.Context, cmd StartOrderCommand) error {
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

	if err = aggregate.Start(cmd.DriverID(), time.Now().UTC(), cmd.Photo()); err != nil {
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
