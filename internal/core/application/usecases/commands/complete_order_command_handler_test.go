package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/ledger"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// deliveredOrder walks a fresh order through accept, start and delivery.
func deliveredOrder(t *testing.T, customerID, driverID kernel.UUID) *order.Order {
	t.Helper()
	o := newStoredOrder(t, customerID)
	now := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, o.Accept(driverID, now))
	require.NoError(t, o.Start(driverID, now.Add(time.Minute), ""))
	require.NoError(t, o.MarkDelivered(driverID, now.Add(2*time.Minute), ""))
	return o
}

func TestCompleteOrderCommandHandler_Handle_Settlement(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	storedOrder := deliveredOrder(t, customerID, driverID)

	transaction, err := ledger.NewTransaction(
		kernel.NewUUID(), storedOrder.ID(), driverID, 1000, 2)
	require.NoError(t, err)

	driver, err := account.NewAccount(driverID, "Taras", "", account.RoleDriver)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteOrderCommand(storedOrder.ID(), customerID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	ledgerRepo := new(MockLedgerRepository)
	accountRepo := new(MockAccountRepository)
	uow := new(MockUoW)
	factory := new(MockSettlementUoWFactory)
	broadcaster := new(MockBroadcaster)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, storedOrder.ID()).Return(storedOrder, nil).Once(),
		uow.On("LedgerRepository").Return(ledgerRepo).Once(),
		ledgerRepo.On("GetPendingByOrder", ctx, storedOrder.ID()).Return(transaction, nil).Once(),
		uow.On("AccountRepository").Return(accountRepo).Once(),
		accountRepo.On("Get", ctx, driverID).Return(driver, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		ledgerRepo.On("Update", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once(),
		accountRepo.On("Update", ctx, mock.AnythingOfType("*account.Account")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCompleteOrderCommandHandler(factory, broadcaster)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, storedOrder.Status())
	assert.Equal(t, ledger.TransactionReleased, transaction.Status())
	assert.InDelta(t, 980, driver.Balance(), 1e-9, "amount minus service fee")

	require.Len(t, broadcaster.Changed, 1)
	assert.Equal(t, order.StatusCompleted, broadcaster.Changed[0].Status)

	orderRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
	accountRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteOrderCommandHandler_Handle_SecondCompleteFailsBeforeSettlement(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	storedOrder := deliveredOrder(t, customerID, driverID)
	require.NoError(t, storedOrder.Complete(customerID, time.Now().UTC()))

	cmd, err := commands.NewCompleteOrderCommand(storedOrder.ID(), customerID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	ledgerRepo := new(MockLedgerRepository)
	uow := new(MockUoW)
	factory := new(MockSettlementUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, storedOrder.ID()).Return(storedOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCompleteOrderCommandHandler(factory, new(MockBroadcaster))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.IsType(t, &errs.StateIsInvalidError{}, err)
	ledgerRepo.AssertNotCalled(t, "GetPendingByOrder", mock.Anything, mock.Anything)
}

func TestCompleteOrderCommandHandler_Handle_OnlyOwnerCompletes(t *testing.T) {
	ctx := t.Context()

	storedOrder := deliveredOrder(t, kernel.NewUUID(), kernel.NewUUID())

	cmd, err := commands.NewCompleteOrderCommand(storedOrder.ID(), kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockSettlementUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, storedOrder.ID()).Return(storedOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCompleteOrderCommandHandler(factory, new(MockBroadcaster))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
}
