package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/ledger"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// ConfirmDriverCommandHandler handles the customer side of the
// assignment handshake: binding the candidate driver and opening the
// escrow transaction.
type ConfirmDriverCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	broadcaster ports.OrderBroadcaster
	feePercent  float64
}

// NewConfirmDriverCommandHandler creates a handler for candidate
// confirmations. feePercent is the platform's service fee.
func NewConfirmDriverCommandHandler(
	uowFactory AssignmentUoWFactory,
	broadcaster ports.OrderBroadcaster,
	feePercent float64,
) ConfirmDriverCommandHandler {
	return ConfirmDriverCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		feePercent:  feePercent,
	}
}

// Handle processes the confirmation command.
func (h *ConfirmDriverCommandHandler) Handle(ctx context.Context, cmd ConfirmDriverCommand) error {
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

	if err = aggregate.ConfirmDriver(cmd.CustomerID(), time.Now().UTC()); err != nil {
		return err
	}

	driverID := aggregate.Driver()
	if driverID == nil {
		return errs.NewStateIsInvalidError("order", "no driver bound after confirmation")
	}

	transaction, err := ledger.NewTransaction(
		kernel.NewUUID(), aggregate.ID(), *driverID,
		aggregate.EffectivePrice(), h.feePercent,
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.LedgerRepository().Add(ctx, transaction); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcaster.OrderChanged(aggregate.Snapshot())
	return nil
}
