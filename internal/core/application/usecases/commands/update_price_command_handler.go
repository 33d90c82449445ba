package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// UpdatePriceCommandHandler handles price negotiation steps. Customers
// may only negotiate their own orders; drivers may propose on any open
// negotiable posting.
type UpdatePriceCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewUpdatePriceCommandHandler creates a handler for price proposals.
func NewUpdatePriceCommandHandler(uowFactory OrderUoWFactory, broadcaster ports.OrderBroadcaster) UpdatePriceCommandHandler {
	return UpdatePriceCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the price proposal.
func (h *UpdatePriceCommandHandler) Handle(ctx context.Context, cmd UpdatePriceCommand) error {
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

	if cmd.ActorRole() == account.RoleCustomer && !aggregate.CustomerID().IsEqual(cmd.ActorID()) {
		return errs.NewActionIsForbiddenError("change price")
	}

	if err = aggregate.SetFinalPrice(cmd.Value(), cmd.ActorRole(), time.Now().UTC()); err != nil {
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
