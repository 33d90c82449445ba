package order_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

const (
	reserveTTL   = 10 * time.Minute
	candidateTTL = 15 * time.Minute
)

func testPlace(t *testing.T, location, city string) order.Place {
	t.Helper()
	p, err := order.NewPlace(location, "UA", city, "", "", nil)
	require.NoError(t, err)
	return p
}

func testCargo(t *testing.T) order.Cargo {
	t.Helper()
	c, err := order.NewCargo("furniture", 120, 0, 0, 0, nil)
	require.NoError(t, err)
	return c
}

func newTestOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), customerID,
		testPlace(t, "Kyiv, Khreshchatyk 1", "Kyiv"),
		testPlace(t, "Lviv, Rynok Square 1", "Lviv"),
		testCargo(t),
		order.Schedule{},
		order.PaymentCash,
		1000, 940,
		false, false, false, false,
		testNow,
	)
	require.NoError(t, err)
	return o
}

func newNegotiableOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), customerID,
		testPlace(t, "Kyiv, Khreshchatyk 1", "Kyiv"),
		testPlace(t, "Lviv, Rynok Square 1", "Lviv"),
		testCargo(t),
		order.Schedule{},
		order.PaymentCash,
		1000, 940,
		true, false, false, false,
		testNow,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create a valid order with an opening history entry", func(t *testing.T) {
		customerID := kernel.NewUUID()

		o := newTestOrder(t, customerID)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusCreated, o.Status())
		assert.True(t, o.CustomerID().IsEqual(customerID))
		assert.Nil(t, o.Driver())

		require.Len(t, o.History(), 1)
		entry, ok := o.History()[0].(order.StatusEntry)
		require.True(t, ok)
		assert.Equal(t, order.StatusCreated, entry.Status)
		assert.Equal(t, account.RoleCustomer, entry.Role)
		assert.Equal(t, testNow, entry.At)
	})

	t.Run("should round the price to whole units", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			testPlace(t, "A", ""), testPlace(t, "B", ""),
			testCargo(t), order.Schedule{}, "",
			999.6, 0,
			false, false, false, false,
			testNow,
		)

		require.NoError(t, err)
		assert.InDelta(t, 1000, o.Price(), 1e-9)
	})

	t.Run("should reject non-positive price", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			testPlace(t, "A", ""), testPlace(t, "B", ""),
			testCargo(t), order.Schedule{}, "",
			0, 0,
			false, false, false, false,
			testNow,
		)

		require.Error(t, err)
	})

	t.Run("should reject invalid customer", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.UUID{},
			testPlace(t, "A", ""), testPlace(t, "B", ""),
			testCargo(t), order.Schedule{}, "",
			100, 0,
			false, false, false, false,
			testNow,
		)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Reserve(t *testing.T) {
	t.Run("should place a hold and disclose nothing in history", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()

		require.NoError(t, o.Reserve(driverID, testNow, reserveTTL))

		holder := o.ReservationHolder(testNow)
		require.NotNil(t, holder)
		assert.True(t, holder.IsEqual(driverID))
		assert.Len(t, o.History(), 1)
	})

	t.Run("same driver refreshes the deadline", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()

		require.NoError(t, o.Reserve(driverID, testNow, reserveTTL))
		require.NoError(t, o.Reserve(driverID, testNow.Add(5*time.Minute), reserveTTL))

		assert.NotNil(t, o.ReservationHolder(testNow.Add(14*time.Minute)))
	})

	t.Run("should reject while another driver holds an active reservation", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		err := o.Reserve(kernel.NewUUID(), testNow.Add(time.Minute), reserveTTL)

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("lapsed foreign hold does not block", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		err := o.Reserve(kernel.NewUUID(), testNow.Add(reserveTTL), reserveTTL)

		require.NoError(t, err)
	})

	t.Run("hold lapses exactly at the deadline", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		assert.NotNil(t, o.ReservationHolder(testNow.Add(reserveTTL-time.Second)))
		assert.Nil(t, o.ReservationHolder(testNow.Add(reserveTTL)))
	})

	t.Run("should reject outside CREATED status", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Accept(kernel.NewUUID(), testNow))

		err := o.Reserve(kernel.NewUUID(), testNow, reserveTTL)

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})
}

func TestOrder_CancelReservation(t *testing.T) {
	t.Run("holder may release, even after the hold lapsed", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()
		require.NoError(t, o.Reserve(driverID, testNow, reserveTTL))

		require.NoError(t, o.CancelReservation(driverID, testNow.Add(time.Hour)))

		assert.Nil(t, o.ReservationHolder(testNow.Add(time.Minute)))
	})

	t.Run("customer may release a driver's hold on own order", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		require.NoError(t, o.CancelReservation(customerID, testNow))

		assert.Nil(t, o.ReservationHolder(testNow))
	})

	t.Run("strangers are forbidden", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		err := o.CancelReservation(kernel.NewUUID(), testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})

	t.Run("releasing a pending candidacy re-lists the order with a note", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()
		require.NoError(t, o.RequestAssignment(driverID, testNow, candidateTTL))

		require.NoError(t, o.CancelReservation(driverID, testNow.Add(time.Minute)))

		assert.Equal(t, order.StatusCreated, o.Status())
		assert.Nil(t, o.CandidateDriver(testNow.Add(time.Minute)))

		last, ok := o.History().LastStatus()
		require.True(t, ok)
		assert.Equal(t, order.StatusCreated, last.Status)
		assert.Equal(t, "reservation cancelled", last.Note)
	})
}

func TestOrder_RequestAssignment(t *testing.T) {
	t.Run("should move to PENDING with a candidate hold", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()

		require.NoError(t, o.RequestAssignment(driverID, testNow, candidateTTL))

		assert.Equal(t, order.StatusPending, o.Status())
		cand := o.CandidateDriver(testNow.Add(14 * time.Minute))
		require.NotNil(t, cand)
		assert.True(t, cand.IsEqual(driverID))
		assert.Nil(t, o.Driver())

		last, ok := o.History().LastStatus()
		require.True(t, ok)
		assert.Equal(t, order.StatusPending, last.Status)
		assert.Equal(t, account.RoleDriver, last.Role)
	})

	t.Run("reserving driver may escalate to candidacy", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()
		require.NoError(t, o.Reserve(driverID, testNow, reserveTTL))

		require.NoError(t, o.RequestAssignment(driverID, testNow.Add(time.Minute), candidateTTL))

		assert.Equal(t, order.StatusPending, o.Status())
	})

	t.Run("should reject while another driver holds the order", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		err := o.RequestAssignment(kernel.NewUUID(), testNow.Add(time.Minute), candidateTTL)

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("should reject outside CREATED status", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()
		require.NoError(t, o.RequestAssignment(driverID, testNow, candidateTTL))

		err := o.RequestAssignment(driverID, testNow.Add(time.Minute), candidateTTL)

		require.Error(t, err)
	})
}

func TestOrder_Accept(t *testing.T) {
	t.Run("should bind the driver directly", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		driverID := kernel.NewUUID()

		require.NoError(t, o.Accept(driverID, testNow))

		assert.Equal(t, order.StatusAccepted, o.Status())
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))
		assert.False(t, o.IsClaimed(testNow))

		last, ok := o.History().LastStatus()
		require.True(t, ok)
		assert.Equal(t, order.StatusAccepted, last.Status)
		assert.Equal(t, account.RoleDriver, last.Role)
	})

	t.Run("negotiated final price replaces the posted price", func(t *testing.T) {
		o := newNegotiableOrder(t, kernel.NewUUID())
		require.NoError(t, o.SetFinalPrice(1200, account.RoleDriver, testNow))

		require.NoError(t, o.Accept(kernel.NewUUID(), testNow.Add(time.Minute)))

		assert.InDelta(t, 1200, o.Price(), 1e-9)

		var priceChanges int
		for _, entry := range o.History() {
			if _, ok := entry.(order.PriceChangeEntry); ok {
				priceChanges++
			}
		}
		assert.Equal(t, 2, priceChanges, "negotiation plus fixation")
	})

	t.Run("should reject while another driver holds the order", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		err := o.Accept(kernel.NewUUID(), testNow.Add(time.Minute))

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("second accept fails", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Accept(kernel.NewUUID(), testNow))

		err := o.Accept(kernel.NewUUID(), testNow.Add(time.Second))

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})
}

func TestOrder_ConfirmDriver(t *testing.T) {
	t.Run("customer confirms the candidate", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		driverID := kernel.NewUUID()
		require.NoError(t, o.RequestAssignment(driverID, testNow, candidateTTL))

		require.NoError(t, o.ConfirmDriver(customerID, testNow.Add(5*time.Minute)))

		assert.Equal(t, order.StatusAccepted, o.Status())
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))

		last, ok := o.History().LastStatus()
		require.True(t, ok)
		assert.Equal(t, account.RoleCustomer, last.Role)
	})

	t.Run("only the owner may confirm", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.RequestAssignment(kernel.NewUUID(), testNow, candidateTTL))

		err := o.ConfirmDriver(kernel.NewUUID(), testNow.Add(time.Minute))

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})

	t.Run("lapsed candidate hold blocks confirmation", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		require.NoError(t, o.RequestAssignment(kernel.NewUUID(), testNow, candidateTTL))

		err := o.ConfirmDriver(customerID, testNow.Add(candidateTTL))

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})
}

func TestOrder_RejectDriver(t *testing.T) {
	t.Run("records the rejection and re-lists the order", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		require.NoError(t, o.RequestAssignment(kernel.NewUUID(), testNow, candidateTTL))

		require.NoError(t, o.RejectDriver(customerID, testNow.Add(time.Minute)))

		assert.Equal(t, order.StatusCreated, o.Status())
		assert.False(t, o.IsClaimed(testNow.Add(time.Minute)))

		h := o.History()
		require.GreaterOrEqual(t, len(h), 4)
		rejected, ok := h[len(h)-2].(order.StatusEntry)
		require.True(t, ok)
		assert.Equal(t, order.StatusRejected, rejected.Status)
		relisted, ok := h[len(h)-1].(order.StatusEntry)
		require.True(t, ok)
		assert.Equal(t, order.StatusCreated, relisted.Status)
	})

	t.Run("only the owner may reject", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.RequestAssignment(kernel.NewUUID(), testNow, candidateTTL))

		err := o.RejectDriver(kernel.NewUUID(), testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})
}

func TestOrder_Execution(t *testing.T) {
	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	accepted := func(t *testing.T) *order.Order {
		o := newTestOrder(t, customerID)
		require.NoError(t, o.Accept(driverID, testNow))
		return o
	}

	t.Run("driver starts and delivers, customer completes", func(t *testing.T) {
		o := accepted(t)

		require.NoError(t, o.Start(driverID, testNow.Add(time.Hour), "pickup.jpg"))
		assert.Equal(t, order.StatusInProgress, o.Status())

		require.NoError(t, o.MarkDelivered(driverID, testNow.Add(2*time.Hour), "pod.jpg"))
		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.Contains(t, o.Cargo().Photos(), "pod.jpg")

		require.NoError(t, o.Complete(customerID, testNow.Add(3*time.Hour)))
		assert.Equal(t, order.StatusCompleted, o.Status())
		assert.True(t, o.Status().IsTerminal())
	})

	t.Run("only the assigned driver may start", func(t *testing.T) {
		o := accepted(t)

		err := o.Start(kernel.NewUUID(), testNow, "")

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})

	t.Run("only the customer may complete", func(t *testing.T) {
		o := accepted(t)
		require.NoError(t, o.Start(driverID, testNow, ""))
		require.NoError(t, o.MarkDelivered(driverID, testNow, ""))

		err := o.Complete(driverID, testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})

	t.Run("delivery before pickup is rejected", func(t *testing.T) {
		o := accepted(t)

		err := o.MarkDelivered(driverID, testNow, "")

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("customer withdraws a fresh posting", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)

		require.NoError(t, o.Cancel(customerID, testNow))

		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.True(t, o.Status().IsTerminal())
	})

	t.Run("cannot cancel after assignment", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		require.NoError(t, o.Accept(kernel.NewUUID(), testNow))

		err := o.Cancel(customerID, testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())

		err := o.Cancel(kernel.NewUUID(), testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})
}

func TestOrder_CanDelete(t *testing.T) {
	customerID := kernel.NewUUID()

	t.Run("owner may delete an unclaimed posting", func(t *testing.T) {
		o := newTestOrder(t, customerID)
		require.NoError(t, o.CanDelete(customerID, testNow))
	})

	t.Run("a foreign active hold blocks deletion", func(t *testing.T) {
		o := newTestOrder(t, customerID)
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		err := o.CanDelete(customerID, testNow.Add(time.Minute))

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("a lapsed hold does not block deletion", func(t *testing.T) {
		o := newTestOrder(t, customerID)
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		require.NoError(t, o.CanDelete(customerID, testNow.Add(reserveTTL)))
	})

	t.Run("non-owners are forbidden", func(t *testing.T) {
		o := newTestOrder(t, customerID)

		err := o.CanDelete(kernel.NewUUID(), testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})
}

func TestOrder_SetFinalPrice(t *testing.T) {
	t.Run("records the change with the previous effective value", func(t *testing.T) {
		o := newNegotiableOrder(t, kernel.NewUUID())

		require.NoError(t, o.SetFinalPrice(1200.4, account.RoleDriver, testNow))

		require.NotNil(t, o.FinalPrice())
		assert.InDelta(t, 1200, *o.FinalPrice(), 1e-9)
		assert.InDelta(t, 1200, o.EffectivePrice(), 1e-9)

		last := o.History()[len(o.History())-1]
		change, ok := last.(order.PriceChangeEntry)
		require.True(t, ok)
		assert.Equal(t, order.PriceFieldFinal, change.Field)
		require.NotNil(t, change.From)
		assert.Equal(t, int64(1000), *change.From)
		assert.Equal(t, int64(1200), change.To)
		assert.Equal(t, account.RoleDriver, change.Role)
	})

	t.Run("second change starts from the previous final price", func(t *testing.T) {
		o := newNegotiableOrder(t, kernel.NewUUID())
		require.NoError(t, o.SetFinalPrice(1200, account.RoleDriver, testNow))

		require.NoError(t, o.SetFinalPrice(1100, account.RoleCustomer, testNow.Add(time.Minute)))

		last := o.History()[len(o.History())-1].(order.PriceChangeEntry)
		require.NotNil(t, last.From)
		assert.Equal(t, int64(1200), *last.From)
		assert.Equal(t, int64(1100), last.To)
	})

	t.Run("non-negotiable postings reject price changes", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())

		err := o.SetFinalPrice(900, account.RoleDriver, testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("rejected after assignment", func(t *testing.T) {
		o := newNegotiableOrder(t, kernel.NewUUID())
		require.NoError(t, o.Accept(kernel.NewUUID(), testNow))

		err := o.SetFinalPrice(900, account.RoleDriver, testNow)

		require.Error(t, err)
	})
}

func TestOrder_Edit(t *testing.T) {
	t.Run("applies changes and records a price change", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		newPrice := 1500.0

		require.NoError(t, o.Edit(customerID, order.Changes{Price: &newPrice}, testNow.Add(time.Minute)))

		assert.InDelta(t, 1500, o.Price(), 1e-9)
		change, ok := o.History()[len(o.History())-1].(order.PriceChangeEntry)
		require.True(t, ok)
		assert.Equal(t, order.PriceFieldBase, change.Field)
		require.NotNil(t, change.From)
		assert.Equal(t, int64(1000), *change.From)
		assert.Equal(t, int64(1500), change.To)
	})

	t.Run("unchanged price writes no history", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		samePrice := 1000.0

		require.NoError(t, o.Edit(customerID, order.Changes{Price: &samePrice}, testNow))

		assert.Len(t, o.History(), 1)
	})

	t.Run("active claim blocks editing", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newTestOrder(t, customerID)
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))
		newPrice := 1500.0

		err := o.Edit(customerID, order.Changes{Price: &newPrice}, testNow.Add(time.Minute))

		require.Error(t, err)
		assert.IsType(t, &errs.StateIsInvalidError{}, err)
	})

	t.Run("only the owner may edit", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())

		err := o.Edit(kernel.NewUUID(), order.Changes{}, testNow)

		require.Error(t, err)
		assert.IsType(t, &errs.ActionIsForbiddenError{}, err)
	})
}

func TestOrder_ExpireHolds(t *testing.T) {
	t.Run("lapsed reservation on CREATED is dropped silently", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		changed, err := o.ExpireHolds(testNow.Add(reserveTTL))

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Nil(t, o.ReservationHolder(testNow.Add(reserveTTL)))
		assert.Len(t, o.History(), 1)
	})

	t.Run("active reservation is untouched", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.Reserve(kernel.NewUUID(), testNow, reserveTTL))

		changed, err := o.ExpireHolds(testNow.Add(time.Minute))

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("lapsed candidacy re-lists the order with a note", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())
		require.NoError(t, o.RequestAssignment(kernel.NewUUID(), testNow, candidateTTL))

		changed, err := o.ExpireHolds(testNow.Add(candidateTTL))

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.StatusCreated, o.Status())

		last, ok := o.History().LastStatus()
		require.True(t, ok)
		assert.Equal(t, "candidate hold expired", last.Note)
	})

	t.Run("no holds means no change", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID())

		changed, err := o.ExpireHolds(testNow)

		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestOrder_SnapshotRoundTrip(t *testing.T) {
	t.Run("restores an order with holds and negotiation intact", func(t *testing.T) {
		customerID := kernel.NewUUID()
		o := newNegotiableOrder(t, customerID)
		driverID := kernel.NewUUID()
		require.NoError(t, o.SetFinalPrice(1100, account.RoleDriver, testNow))
		require.NoError(t, o.RequestAssignment(driverID, testNow, candidateTTL))

		snap := o.Snapshot()
		restored, err := order.RestoreFromSnapshot(snap)

		require.NoError(t, err)
		require.NoError(t, restored.Validate())
		assert.True(t, restored.IsEqual(o))
		assert.Equal(t, o.Status(), restored.Status())
		assert.True(t, restored.CustomerID().IsEqual(customerID))

		cand := restored.CandidateDriver(testNow.Add(time.Minute))
		require.NotNil(t, cand)
		assert.True(t, cand.IsEqual(driverID))

		require.NotNil(t, restored.FinalPrice())
		assert.InDelta(t, 1100, *restored.FinalPrice(), 1e-9)
		assert.Equal(t, len(o.History()), len(restored.History()))
	})

	t.Run("restores geographic points", func(t *testing.T) {
		from, err := kernel.NewGeoPoint(50.45, 30.52)
		require.NoError(t, err)
		pickup, err := order.NewPlace("Kyiv", "UA", "Kyiv", "", "", &from)
		require.NoError(t, err)
		dropoff := testPlace(t, "Lviv", "Lviv")

		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			pickup, dropoff, testCargo(t), order.Schedule{}, "",
			500, 0, false, false, false, false, testNow,
		)
		require.NoError(t, err)

		restored, err := order.RestoreFromSnapshot(o.Snapshot())

		require.NoError(t, err)
		point := restored.Pickup().Point()
		require.NotNil(t, point)
		assert.InDelta(t, 50.45, point.Lat(), 1e-9)
		assert.InDelta(t, 30.52, point.Lon(), 1e-9)
		assert.Nil(t, restored.Dropoff().Point())
	})

	t.Run("rejects a snapshot with an unknown status", func(t *testing.T) {
		snap := newTestOrder(t, kernel.NewUUID()).Snapshot()
		snap.Status = "REJECTED"

		_, err := order.RestoreFromSnapshot(snap)

		require.Error(t, err)
	})
}
