package order

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status represents the lifecycle state of a shipment order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct marketplace workflow.
//
// State transitions:
//
//	CREATED ──> PENDING ──> ACCEPTED ──> IN_PROGRESS ──> DELIVERED ──> COMPLETED
//	   │  ▲        │            ▲
//	   │  └────────┘            │
//	   │  (reject-driver)       │
//	   ├────────────────────────┘
//	   │  (direct accept)
//	   └──> CANCELLED
//
// REJECTED is a transient history marker written when a customer turns a
// candidate driver down; it is never a resting state. COMPLETED and
// CANCELLED are terminal.
type Status string

const (
	// StatusCreated is the initial status: the order is posted and
	// claimable by drivers.
	StatusCreated Status = "CREATED"

	// StatusPending means a candidate driver has requested assignment and
	// awaits the customer's confirmation.
	StatusPending Status = "PENDING"

	// StatusAccepted means the customer and a driver are bound; an escrow
	// transaction has been opened.
	StatusAccepted Status = "ACCEPTED"

	// StatusInProgress means the driver has picked up the cargo.
	StatusInProgress Status = "IN_PROGRESS"

	// StatusDelivered means the driver reports the cargo as delivered,
	// pending the customer's confirmation.
	StatusDelivered Status = "DELIVERED"

	// StatusCompleted means the customer confirmed delivery and the escrow
	// transaction was released. Terminal.
	StatusCompleted Status = "COMPLETED"

	// StatusCancelled means the customer withdrew the order. Terminal.
	StatusCancelled Status = "CANCELLED"

	// StatusRejected is a history-only marker recording that the customer
	// rejected a candidate driver. Orders never rest in this status.
	StatusRejected Status = "REJECTED"
)

// restingStatuses are the states an order may actually be in.
func restingStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusCreated:    {},
		StatusPending:    {},
		StatusAccepted:   {},
		StatusInProgress: {},
		StatusDelivered:  {},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}
}

// Validate checks that the status is a valid resting state. StatusRejected
// is intentionally excluded: it may only appear in history entries.
func (s Status) Validate() error {
	if _, ok := restingStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed, apart
// from financial settlement bookkeeping.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// RequestAssignment transitions CREATED -> PENDING when a driver formally
// requests to be assigned.
func (s Status) RequestAssignment() (Status, error) {
	if s != StatusCreated {
		return "", invalidTransition(s, "request assignment for")
	}
	return StatusPending, nil
}

// Accept transitions CREATED -> ACCEPTED for the direct-accept flow where
// no customer confirmation round-trip is involved.
func (s Status) Accept() (Status, error) {
	if s != StatusCreated {
		return "", invalidTransition(s, "accept")
	}
	return StatusAccepted, nil
}

// Confirm transitions PENDING -> ACCEPTED when the customer confirms the
// candidate driver.
func (s Status) Confirm() (Status, error) {
	if s != StatusPending {
		return "", invalidTransition(s, "confirm")
	}
	return StatusAccepted, nil
}

// Reject transitions PENDING -> CREATED when the customer turns the
// candidate driver down. The REJECTED marker is recorded in history by the
// aggregate, not here.
func (s Status) Reject() (Status, error) {
	if s != StatusPending {
		return "", invalidTransition(s, "reject")
	}
	return StatusCreated, nil
}

// Start transitions ACCEPTED -> IN_PROGRESS when the driver picks up the
// cargo.
func (s Status) Start() (Status, error) {
	if s != StatusAccepted {
		return "", invalidTransition(s, "start")
	}
	return StatusInProgress, nil
}

// Deliver transitions IN_PROGRESS -> DELIVERED when the driver reports
// delivery.
func (s Status) Deliver() (Status, error) {
	if s != StatusInProgress {
		return "", invalidTransition(s, "deliver")
	}
	return StatusDelivered, nil
}

// Complete transitions DELIVERED -> COMPLETED when the customer confirms
// receipt. Terminal.
func (s Status) Complete() (Status, error) {
	if s != StatusDelivered {
		return "", invalidTransition(s, "complete")
	}
	return StatusCompleted, nil
}

// Cancel transitions CREATED -> CANCELLED when the customer withdraws the
// posting. Terminal.
func (s Status) Cancel() (Status, error) {
	if s != StatusCreated {
		return "", invalidTransition(s, "cancel")
	}
	return StatusCancelled, nil
}

// StatusFromString parses a status from its wire representation,
// accepting only resting states.
func StatusFromString(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

func invalidTransition(s Status, action string) error {
	return errs.NewStateIsInvalidError("order",
		fmt.Sprintf("%s is not a valid status to %s an order", s, action))
}
