package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// DeleteOrderCommandHandler handles hard deletion of order postings.
// Deletion is only allowed for the owner, on CREATED orders without an
// active foreign hold; subscribers learn about it through a deletion
// marker on the feed.
type DeleteOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewDeleteOrderCommandHandler creates a handler for order deletion.
func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, broadcaster ports.OrderBroadcaster) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the deletion command.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
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

	if err = aggregate.CanDelete(cmd.CustomerID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, cmd.OrderID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcaster.OrderDeleted(cmd.OrderID())
	return nil
}
