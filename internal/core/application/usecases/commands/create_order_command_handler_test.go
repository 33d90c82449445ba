package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPlace(t *testing.T, location string, point *kernel.GeoPoint) order.Place {
	t.Helper()
	p, err := order.NewPlace(location, "UA", "", "", "", point)
	require.NoError(t, err)
	return p
}

func testCargo(t *testing.T) order.Cargo {
	t.Helper()
	c, err := order.NewCargo("boxes", 80, 0, 0, 0, nil)
	require.NoError(t, err)
	return c
}

func newCreateOrderCommand(t *testing.T, pickup, dropoff order.Place, price float64) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(),
		pickup, dropoff, testCargo(t),
		order.Schedule{}, order.PaymentCash,
		price, false, false, false, false,
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	kyiv, err := kernel.NewGeoPoint(50.45, 30.52)
	require.NoError(t, err)
	lviv, err := kernel.NewGeoPoint(49.84, 24.03)
	require.NoError(t, err)

	cmd := newCreateOrderCommand(t,
		testPlace(t, "Kyiv", &kyiv), testPlace(t, "Lviv", &lviv), 25000)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	pricer := new(MockRoutePricer)
	broadcaster := new(MockBroadcaster)

	pricer.On("DistanceKm", ctx, kyiv, lviv).Return(540.0, nil).Once()
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateOrderCommandHandler(factory, pricer, broadcaster, 50, 0, discardLogger())
	snapshot, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCreated, snapshot.Status)
	assert.InDelta(t, 27000, snapshot.SystemPrice, 1e-9)
	require.Len(t, broadcaster.Changed, 1)
	assert.Equal(t, snapshot.ID, broadcaster.Changed[0].ID)

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	pricer.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RoutingFailureDegrades(t *testing.T) {
	ctx := t.Context()

	kyiv, err := kernel.NewGeoPoint(50.45, 30.52)
	require.NoError(t, err)
	lviv, err := kernel.NewGeoPoint(49.84, 24.03)
	require.NoError(t, err)

	cmd := newCreateOrderCommand(t,
		testPlace(t, "Kyiv", &kyiv), testPlace(t, "Lviv", &lviv), 25000)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	pricer := new(MockRoutePricer)
	broadcaster := new(MockBroadcaster)

	pricer.On("DistanceKm", ctx, kyiv, lviv).Return(0.0, errors.New("router down")).Once()
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateOrderCommandHandler(factory, pricer, broadcaster, 50, 0, discardLogger())
	snapshot, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, snapshot.SystemPrice)
}

func TestCreateOrderCommandHandler_Handle_PriceBandViolation(t *testing.T) {
	ctx := t.Context()

	kyiv, err := kernel.NewGeoPoint(50.45, 30.52)
	require.NoError(t, err)
	lviv, err := kernel.NewGeoPoint(49.84, 24.03)
	require.NoError(t, err)

	// System price is 540 * 50 = 27000; a 30% band allows up to 35100.
	cmd := newCreateOrderCommand(t,
		testPlace(t, "Kyiv", &kyiv), testPlace(t, "Lviv", &lviv), 50000)

	factory := new(MockOrderUoWFactory)
	pricer := new(MockRoutePricer)
	broadcaster := new(MockBroadcaster)

	pricer.On("DistanceKm", ctx, kyiv, lviv).Return(540.0, nil).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, pricer, broadcaster, 50, 30, discardLogger())
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.IsType(t, &errs.ValueIsOutOfRangeError{}, err)
	factory.AssertNotCalled(t, "Create")
	assert.Empty(t, broadcaster.Changed)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, nil, new(MockBroadcaster), 50, 0, discardLogger())
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommand_New_Validation(t *testing.T) {
	t.Run("should reject non-positive price", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(),
			testPlace(t, "Kyiv", nil), testPlace(t, "Lviv", nil), testCargo(t),
			order.Schedule{}, order.PaymentCash,
			0, false, false, false, false,
		)
		require.Error(t, err)
	})

	t.Run("should reject invalid customer", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), kernel.UUID{},
			testPlace(t, "Kyiv", nil), testPlace(t, "Lviv", nil), testCargo(t),
			order.Schedule{}, order.PaymentCash,
			1000, false, false, false, false,
		)
		require.Error(t, err)
	})
}
