package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreFromSnapshot. This ensures all
	// orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreFromSnapshot")
)

// roundPrice normalizes all monetary values to whole currency units.
func roundPrice(v float64) float64 {
	return math.Round(v)
}

// Order represents a shipment posting in the marketplace. It is the
// aggregate root that manages the full lifecycle: posting, temporary
// claims by drivers, assignment, execution and completion.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a customer
//   - Pickup and dropoff places must be valid, cargo weight positive
//   - Status transitions follow the state machine in Status
//   - At most one driver holds a claim (reservation or candidacy) at a
//     time; holds lapse after their deadline without a write
//   - Every status transition and price change is appended to History
//   - Can only be created through NewOrder or RestoreFromSnapshot
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID

	// driverID is the assigned driver (nil until assignment)
	driverID *kernel.UUID

	pickup   Place
	dropoff  Place
	cargo    Cargo
	schedule Schedule
	payment  PaymentMethod

	// price is the customer's posted price, rounded to whole units
	price float64

	// systemPrice is the platform's distance-based price suggestion,
	// 0 when routing was unavailable
	systemPrice float64

	// agreedPrice marks the posting as negotiable; finalPrice is only
	// meaningful when set
	agreedPrice bool
	finalPrice  *float64

	insurance  bool
	loadHelp   bool
	unloadHelp bool

	status Status

	// reservedBy/reservedUntil form the short contact-disclosure hold
	reservedBy    *kernel.UUID
	reservedUntil time.Time

	// candidateID/candidateUntil form the assignment-request hold that
	// backs the PENDING status
	candidateID    *kernel.UUID
	candidateUntil time.Time

	history History

	// version backs optimistic concurrency control in persistence
	version   int
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in CREATED status with an opening history
// entry. The posted price is rounded to whole currency units.
//
// Parameters:
//   - id: unique identifier for the order
//   - customerID: the posting customer's account ID
//   - pickup, dropoff: route endpoints (location strings required)
//   - cargo: what is being shipped (positive weight required)
//   - schedule: optional loading/unloading windows
//   - payment: CASH, CARD or empty for unspecified
//   - price: the customer's asking price
//   - systemPrice: the platform's suggestion, 0 when unknown
//   - agreedPrice: whether the price is negotiable
//   - now: creation time, recorded in history
//
// Returns the created order, or a validation error if any parameter is
// invalid.
func NewOrder(
	id, customerID kernel.UUID,
	pickup, dropoff Place,
	cargo Cargo,
	schedule Schedule,
	payment PaymentMethod,
	price, systemPrice float64,
	agreedPrice, insurance, loadHelp, unloadHelp bool,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        StatusCreated,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPickup(pickup),
		o.setDropoff(dropoff),
		o.setCargo(cargo),
		o.setPayment(payment),
		o.setPrice(price),
	); err != nil {
		return nil, err
	}

	o.schedule = schedule
	o.systemPrice = roundPrice(systemPrice)
	o.agreedPrice = agreedPrice
	o.insurance = insurance
	o.loadHelp = loadHelp
	o.unloadHelp = unloadHelp
	o.createdAt = now
	o.updatedAt = now

	o.history = History{StatusEntry{
		Status: StatusCreated,
		At:     now,
		Role:   account.RoleCustomer,
	}}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the posting customer's account ID.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Driver returns the assigned driver's ID, or nil when unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Pickup returns the pickup place.
func (o *Order) Pickup() Place {
	return o.pickup
}

// Dropoff returns the dropoff place.
func (o *Order) Dropoff() Place {
	return o.dropoff
}

// Cargo returns the cargo description.
func (o *Order) Cargo() Cargo {
	return o.cargo
}

// Schedule returns the loading/unloading windows.
func (o *Order) Schedule() Schedule {
	return o.schedule
}

// Payment returns the payment method.
func (o *Order) Payment() PaymentMethod {
	return o.payment
}

// Price returns the customer's posted price.
func (o *Order) Price() float64 {
	return o.price
}

// SystemPrice returns the platform's price suggestion, 0 when unknown.
func (o *Order) SystemPrice() float64 {
	return o.systemPrice
}

// AgreedPrice reports whether the price is negotiable.
func (o *Order) AgreedPrice() bool {
	return o.agreedPrice
}

// FinalPrice returns the negotiated final price, or nil when none was set.
func (o *Order) FinalPrice() *float64 {
	return o.finalPrice
}

// EffectivePrice returns the final price when one was negotiated, the
// posted price otherwise. This is the amount escrowed at assignment.
func (o *Order) EffectivePrice() float64 {
	if o.finalPrice != nil {
		return *o.finalPrice
	}
	return o.price
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// History returns the append-only transition log.
func (o *Order) History() History {
	return o.history
}

// Version returns the optimistic concurrency version loaded from
// persistence. It is bumped by the repository on every write.
func (o *Order) Version() int {
	return o.version
}

// CreatedAt returns the posting time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last persisted modification time.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ReservationHolder returns the driver currently holding an active
// reservation, or nil when there is none or it has lapsed. Lapse is
// evaluated lazily against now; the stored fields are untouched.
func (o *Order) ReservationHolder(now time.Time) *kernel.UUID {
	if o.reservedBy == nil || !now.Before(o.reservedUntil) {
		return nil
	}
	return o.reservedBy
}

// CandidateDriver returns the driver currently holding an active
// assignment-request hold, or nil when there is none or it has lapsed.
func (o *Order) CandidateDriver(now time.Time) *kernel.UUID {
	if o.candidateID == nil || !now.Before(o.candidateUntil) {
		return nil
	}
	return o.candidateID
}

// IsClaimed reports whether any driver holds an active claim on the order.
func (o *Order) IsClaimed(now time.Time) bool {
	return o.ReservationHolder(now) != nil || o.CandidateDriver(now) != nil
}

// heldByAnother reports whether a driver other than driverID holds any
// active claim.
func (o *Order) heldByAnother(driverID kernel.UUID, now time.Time) bool {
	if holder := o.ReservationHolder(now); holder != nil && !holder.IsEqual(driverID) {
		return true
	}
	if cand := o.CandidateDriver(now); cand != nil && !cand.IsEqual(driverID) {
		return true
	}
	return false
}

// Reserve places a short exclusive hold on the order for driverID,
// disclosing the customer's contact details to that driver for the
// duration. Re-reserving by the same driver refreshes the deadline.
//
// Business rules:
//   - the order must be in CREATED status
//   - no other driver may hold an active claim
//   - no history entry is written; a reservation is not a transition
func (o *Order) Reserve(driverID kernel.UUID, now time.Time, ttl time.Duration) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status != StatusCreated {
		return errs.NewStateIsInvalidError("order",
			fmt.Sprintf("%s is not a valid status to reserve an order", o.status))
	}
	if o.heldByAnother(driverID, now) {
		return errs.NewStateIsInvalidError("order", "order is already reserved")
	}

	o.reservedBy = &driverID
	o.reservedUntil = now.Add(ttl)
	return nil
}

// CancelReservation releases the reservation hold. Allowed for the driver
// recorded as the holder, even after the hold lapsed, and for the order's
// customer. All hold fields are cleared; if a pending assignment request
// was in flight the order returns to CREATED with a history note.
func (o *Order) CancelReservation(actorID kernel.UUID, now time.Time) error {
	holder := o.reservedBy != nil && o.reservedBy.IsEqual(actorID)
	owner := o.customerID.IsEqual(actorID)
	if !holder && !owner {
		return errs.NewActionIsForbiddenError("cancel reservation")
	}

	o.clearHolds()

	if o.status == StatusPending {
		o.status = StatusCreated
		role := account.RoleDriver
		if owner && !holder {
			role = account.RoleCustomer
		}
		o.history = append(o.history, StatusEntry{
			Status: StatusCreated,
			At:     now,
			Role:   role,
			Note:   "reservation cancelled",
		})
	}

	return nil
}

// RequestAssignment moves the order to PENDING on behalf of driverID, who
// becomes the candidate awaiting the customer's confirmation. The driver
// also receives a fresh reservation hold so contact details stay visible
// while the customer decides.
func (o *Order) RequestAssignment(driverID kernel.UUID, now time.Time, ttl time.Duration) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.heldByAnother(driverID, now) {
		return errs.NewStateIsInvalidError("order", "order is already reserved")
	}

	newStatus, err := o.status.RequestAssignment()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.candidateID = &driverID
	o.candidateUntil = now.Add(ttl)
	o.reservedBy = &driverID
	o.reservedUntil = now.Add(ttl)
	o.history = append(o.history, StatusEntry{
		Status: StatusPending,
		At:     now,
		Role:   account.RoleDriver,
	})
	return nil
}

// Accept assigns driverID directly, skipping the PENDING confirmation
// round-trip. Used for non-negotiable postings where claiming is binding.
//
// Business rules:
//   - the order must be in CREATED status
//   - no other driver may hold an active claim
//   - a negotiated final price, if any, replaces the posted price and the
//     replacement is recorded as a price change entry
//   - all holds are cleared and an ACCEPTED entry is appended
func (o *Order) Accept(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.heldByAnother(driverID, now) {
		return errs.NewStateIsInvalidError("order", "order is already reserved")
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.fixFinalPrice(account.RoleDriver, now)

	o.status = newStatus
	o.driverID = &driverID
	o.clearHolds()
	o.history = append(o.history, StatusEntry{
		Status: StatusAccepted,
		At:     now,
		Role:   account.RoleDriver,
	})
	return nil
}

// ConfirmDriver lets the customer confirm the pending candidate driver,
// binding the assignment.
//
// Business rules:
//   - only the order's customer may confirm
//   - the order must be in PENDING status with a still-active candidate
//     hold; a lapsed hold means the candidacy expired
func (o *Order) ConfirmDriver(customerID kernel.UUID, now time.Time) error {
	if !o.customerID.IsEqual(customerID) {
		return errs.NewActionIsForbiddenError("confirm driver")
	}

	cand := o.CandidateDriver(now)
	if cand == nil {
		return errs.NewStateIsInvalidError("order", "candidate hold has expired")
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.fixFinalPrice(account.RoleCustomer, now)

	o.status = newStatus
	driverID := *cand
	o.driverID = &driverID
	o.clearHolds()
	o.history = append(o.history, StatusEntry{
		Status: StatusAccepted,
		At:     now,
		Role:   account.RoleCustomer,
	})
	return nil
}

// RejectDriver lets the customer turn the pending candidate down. The
// order returns to CREATED and becomes claimable again; both the REJECTED
// marker and the re-listing are recorded in history.
func (o *Order) RejectDriver(customerID kernel.UUID, now time.Time) error {
	if !o.customerID.IsEqual(customerID) {
		return errs.NewActionIsForbiddenError("reject driver")
	}

	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.clearHolds()
	o.history = append(o.history,
		StatusEntry{Status: StatusRejected, At: now, Role: account.RoleCustomer},
		StatusEntry{Status: StatusCreated, At: now, Role: account.RoleCustomer},
	)
	return nil
}

// Start marks the cargo as picked up by the assigned driver. An optional
// pickup photo is recorded in the history entry.
func (o *Order) Start(driverID kernel.UUID, now time.Time, photo string) error {
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewActionIsForbiddenError("start order")
	}

	newStatus, err := o.status.Start()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.history = append(o.history, StatusEntry{
		Status: StatusInProgress,
		At:     now,
		Role:   account.RoleDriver,
		Photo:  photo,
	})
	return nil
}

// MarkDelivered records the driver's delivery report, pending the
// customer's confirmation. A proof-of-delivery photo, when given, is
// stored both in the history entry and in the cargo photo set.
func (o *Order) MarkDelivered(driverID kernel.UUID, now time.Time, photo string) error {
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewActionIsForbiddenError("deliver order")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	if photo != "" {
		o.cargo.photos = append(o.cargo.photos, photo)
	}
	o.history = append(o.history, StatusEntry{
		Status: StatusDelivered,
		At:     now,
		Role:   account.RoleDriver,
		Photo:  photo,
	})
	return nil
}

// Complete records the customer's confirmation of delivery. Terminal;
// escrow settlement happens in the use case layer after this succeeds.
func (o *Order) Complete(customerID kernel.UUID, now time.Time) error {
	if !o.customerID.IsEqual(customerID) {
		return errs.NewActionIsForbiddenError("complete order")
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.history = append(o.history, StatusEntry{
		Status: StatusCompleted,
		At:     now,
		Role:   account.RoleCustomer,
	})
	return nil
}

// Cancel withdraws the posting. Only the customer may cancel, and only
// while the order is still in CREATED status.
func (o *Order) Cancel(customerID kernel.UUID, now time.Time) error {
	if !o.customerID.IsEqual(customerID) {
		return errs.NewActionIsForbiddenError("cancel order")
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.clearHolds()
	o.history = append(o.history, StatusEntry{
		Status: StatusCancelled,
		At:     now,
		Role:   account.RoleCustomer,
	})
	return nil
}

// CanDelete reports whether customerID may permanently remove the order:
// only the owner, only in CREATED status, and only while no other driver
// holds an active claim.
func (o *Order) CanDelete(customerID kernel.UUID, now time.Time) error {
	if !o.customerID.IsEqual(customerID) {
		return errs.NewActionIsForbiddenError("delete order")
	}
	if o.status != StatusCreated {
		return errs.NewStateIsInvalidError("order",
			fmt.Sprintf("%s is not a valid status to delete an order", o.status))
	}
	if o.IsClaimed(now) {
		return errs.NewStateIsInvalidError("order", "order is reserved by a driver")
	}
	return nil
}

// SetFinalPrice records a negotiated price. Allowed only on negotiable
// postings while the order is still in CREATED or PENDING status. The
// value is rounded and the change is appended to history with the
// previous effective value.
func (o *Order) SetFinalPrice(value float64, byRole account.Role, now time.Time) error {
	if !o.agreedPrice {
		return errs.NewStateIsInvalidError("order", "price is not negotiable")
	}
	if o.status != StatusCreated && o.status != StatusPending {
		return errs.NewStateIsInvalidError("order",
			fmt.Sprintf("%s is not a valid status to change the price", o.status))
	}
	if value <= 0 {
		return errs.NewValueIsInvalidError("finalPrice")
	}

	rounded := roundPrice(value)
	from := int64(roundPrice(o.EffectivePrice()))
	o.finalPrice = &rounded
	o.history = append(o.history, PriceChangeEntry{
		At:    now,
		Role:  byRole,
		Field: PriceFieldFinal,
		From:  &from,
		To:    int64(rounded),
	})
	return nil
}

// Changes carries the editable fields of an order. Nil pointers leave the
// current value untouched.
type Changes struct {
	Pickup      *Place
	Dropoff     *Place
	Cargo       *Cargo
	Schedule    *Schedule
	Payment     *PaymentMethod
	Price       *float64
	SystemPrice *float64
	AgreedPrice *bool
	Insurance   *bool
	LoadHelp    *bool
	UnloadHelp  *bool
}

// Edit applies customer changes to the posting. Allowed only for the
// owner, only in CREATED status, and only while no driver holds an active
// claim. A price change is appended to history.
func (o *Order) Edit(customerID kernel.UUID, changes Changes, now time.Time) error {
	if !o.customerID.IsEqual(customerID) {
		return errs.NewActionIsForbiddenError("edit order")
	}
	if o.status != StatusCreated {
		return errs.NewStateIsInvalidError("order",
			fmt.Sprintf("%s is not a valid status to edit an order", o.status))
	}
	if o.IsClaimed(now) {
		return errs.NewStateIsInvalidError("order", "order is reserved by a driver")
	}

	if changes.Pickup != nil {
		if err := o.setPickup(*changes.Pickup); err != nil {
			return err
		}
	}
	if changes.Dropoff != nil {
		if err := o.setDropoff(*changes.Dropoff); err != nil {
			return err
		}
	}
	if changes.Cargo != nil {
		if err := o.setCargo(*changes.Cargo); err != nil {
			return err
		}
	}
	if changes.Schedule != nil {
		o.schedule = *changes.Schedule
	}
	if changes.Payment != nil {
		if err := o.setPayment(*changes.Payment); err != nil {
			return err
		}
	}
	if changes.SystemPrice != nil {
		o.systemPrice = roundPrice(*changes.SystemPrice)
	}
	if changes.AgreedPrice != nil {
		o.agreedPrice = *changes.AgreedPrice
	}
	if changes.Insurance != nil {
		o.insurance = *changes.Insurance
	}
	if changes.LoadHelp != nil {
		o.loadHelp = *changes.LoadHelp
	}
	if changes.UnloadHelp != nil {
		o.unloadHelp = *changes.UnloadHelp
	}

	if changes.Price != nil {
		from := int64(o.price)
		if err := o.setPrice(*changes.Price); err != nil {
			return err
		}
		if int64(o.price) != from {
			o.history = append(o.history, PriceChangeEntry{
				At:    now,
				Role:  account.RoleCustomer,
				Field: PriceFieldBase,
				From:  &from,
				To:    int64(o.price),
			})
		}
	}

	return nil
}

// ExpireHolds clears claims whose deadlines have passed and reports
// whether the order changed. A lapsed reservation on a CREATED order is
// dropped silently; a lapsed candidate hold on a PENDING order re-lists
// the order with a history note.
func (o *Order) ExpireHolds(now time.Time) (bool, error) {
	switch o.status {
	case StatusCreated:
		if o.reservedBy != nil && !now.Before(o.reservedUntil) {
			o.clearHolds()
			return true, nil
		}
	case StatusPending:
		if o.candidateID != nil && !now.Before(o.candidateUntil) {
			newStatus, err := o.status.Reject()
			if err != nil {
				return false, err
			}
			o.status = newStatus
			o.clearHolds()
			o.history = append(o.history, StatusEntry{
				Status: StatusCreated,
				At:     now,
				Note:   "candidate hold expired",
			})
			return true, nil
		}
	}
	return false, nil
}

// fixFinalPrice replaces the posted price with the negotiated final price
// at the moment of assignment, recording the replacement.
func (o *Order) fixFinalPrice(byRole account.Role, now time.Time) {
	if o.finalPrice == nil || *o.finalPrice == o.price {
		return
	}

	from := int64(o.price)
	o.price = *o.finalPrice
	o.history = append(o.history, PriceChangeEntry{
		At:    now,
		Role:  byRole,
		Field: PriceFieldBase,
		From:  &from,
		To:    int64(o.price),
	})
}

func (o *Order) clearHolds() {
	o.reservedBy = nil
	o.reservedUntil = time.Time{}
	o.candidateID = nil
	o.candidateUntil = time.Time{}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setPickup(p Place) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.pickup = p
	return nil
}

func (o *Order) setDropoff(p Place) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.dropoff = p
	return nil
}

func (o *Order) setCargo(c Cargo) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.cargo = c
	return nil
}

func (o *Order) setPayment(m PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	o.payment = m
	return nil
}

func (o *Order) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%v is not greater than 0", price))
	}
	o.price = roundPrice(price)
	return nil
}
