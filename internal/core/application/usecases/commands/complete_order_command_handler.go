package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
)

// CompleteOrderCommandHandler handles completion and settlement: the
// order becomes COMPLETED, the PENDING escrow transaction is released and
// the driver's balance is credited with the amount minus the service fee.
//
// The release is once-only. A second complete attempt fails at the status
// transition before any money moves, so double settlement cannot happen.
type CompleteOrderCommandHandler struct {
	uowFactory  SettlementUoWFactory
	broadcaster ports.OrderBroadcaster
}

// NewCompleteOrderCommandHandler creates a handler for order completion.
func NewCompleteOrderCommandHandler(uowFactory SettlementUoWFactory, broadcaster ports.OrderBroadcaster) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle processes the completion command.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
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

	if err = aggregate.Complete(cmd.CustomerID(), time.Now().UTC()); err != nil {
		return err
	}

	ledgerRepo := uow.LedgerRepository()
	transaction, err := ledgerRepo.GetPendingByOrder(ctx, aggregate.ID())
	if err != nil {
		return err
	}

	if err = transaction.Release(); err != nil {
		return err
	}

	accountRepo := uow.AccountRepository()
	driver, err := accountRepo.Get(ctx, transaction.DriverID())
	if err != nil {
		return err
	}

	if err = driver.Credit(transaction.Payout()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = ledgerRepo.Update(ctx, transaction); err != nil {
		return err
	}
	if err = accountRepo.Update(ctx, driver); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcaster.OrderChanged(aggregate.Snapshot())
	return nil
}
