package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/ports"
)

// ReservationResult carries what the reserving driver learns: the
// customer's contact details and how long the hold lasts.
type ReservationResult struct {
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	ReservedUntil time.Time `json:"reservedUntil"`
}

// ReserveOrderCommandHandler handles reservation holds. A successful
// reservation discloses the customer's name and phone to the driver and
// hides the order from other drivers' feeds until the hold lapses.
type ReserveOrderCommandHandler struct {
	uowFactory  ReservationUoWFactory
	broadcaster ports.OrderBroadcaster
	holdTTL     time.Duration
}

// NewReserveOrderCommandHandler creates a handler for reservation holds.
// holdTTL is the reservation duration.
func NewReserveOrderCommandHandler(
	uowFactory ReservationUoWFactory,
	broadcaster ports.OrderBroadcaster,
	holdTTL time.Duration,
) ReserveOrderCommandHandler {
	return ReserveOrderCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		holdTTL:     holdTTL,
	}
}

// Handle processes the reservation command.
func (h *ReserveOrderCommandHandler) Handle(ctx context.Context, cmd ReserveOrderCommand) (ReservationResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReservationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReservationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ReservationResult{}, err
	}

	now := time.Now().UTC()
	if cmd.FinalPrice() != nil {
		if err = aggregate.SetFinalPrice(*cmd.FinalPrice(), account.RoleDriver, now); err != nil {
			return ReservationResult{}, err
		}
	}

	if err = aggregate.Reserve(cmd.DriverID(), now, h.holdTTL); err != nil {
		return ReservationResult{}, err
	}

	customer, err := uow.AccountRepository().Get(ctx, aggregate.CustomerID())
	if err != nil {
		return ReservationResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return ReservationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReservationResult{}, err
	}

	h.broadcaster.OrderChanged(aggregate.Snapshot())
	return ReservationResult{
		CustomerName:  customer.Name(),
		CustomerPhone: customer.Phone(),
		ReservedUntil: now.Add(h.holdTTL),
	}, nil
}
