package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/ledger"
	"freight/internal/core/ports"
)

// AcceptOrderCommandHandler handles the direct-accept flow: binding the
// driver, fixing the final price and opening the escrow transaction, all
// in one database transaction.
//
// The optimistic version check in the order repository guarantees that of
// two concurrent accepts on the same order exactly one commits; the other
// fails with a version conflict.
type AcceptOrderCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	broadcaster ports.OrderBroadcaster
	feePercent  float64
}

// NewAcceptOrderCommandHandler creates a handler for direct accepts.
// feePercent is the platform's service fee on the escrowed amount.
func NewAcceptOrderCommandHandler(
	uowFactory AssignmentUoWFactory,
	broadcaster ports.OrderBroadcaster,
	feePercent float64,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		feePercent:  feePercent,
	}
}

// Handle processes the accept command.
func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
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

	now := time.Now().UTC()
	if cmd.FinalPrice() != nil {
		if err = aggregate.SetFinalPrice(*cmd.FinalPrice(), account.RoleDriver, now); err != nil {
			return err
		}
	}

	if err = aggregate.Accept(cmd.DriverID(), now); err != nil {
		return err
	}

	transaction, err := ledger.NewTransaction(
		kernel.NewUUID(), aggregate.ID(), cmd.DriverID(),
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
