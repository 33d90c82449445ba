package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// RequestAssignmentCommandHandler moves an order to PENDING on a driver's
// formal assignment request. The candidate hold keeps the order off other
// drivers' feeds while the customer decides.
type RequestAssignmentCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
	holdTTL     time.Duration
}

// NewRequestAssignmentCommandHandler creates a handler for assignment
// requests. holdTTL is the candidate hold duration.
func NewRequestAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	broadcaster ports.OrderBroadcaster,
	holdTTL time.Duration,
) RequestAssignmentCommandHandler {
	return RequestAssignmentCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		holdTTL:     holdTTL,
	}
}

// Handle processes the assignment request.
func (h *RequestAssignmentCommandHandler) Handle(ctx context.Context, cmd RequestAssignmentCommand) error {
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

	if err = aggregate.RequestAssignment(cmd.DriverID(), time.Now().UTC(), h.holdTTL); err != nil {
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
