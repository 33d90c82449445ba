package ledger

import (
	"errors"
	"math"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// ErrTransactionIsNotConstructed is returned when a Transaction was not
// created through NewTransaction or RestoreTransaction.
var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction or RestoreTransaction")

// TransactionStatus is the escrow state of a transaction.
type TransactionStatus string

const (
	// TransactionPending means the amount is held in escrow while the
	// shipment is underway.
	TransactionPending TransactionStatus = "PENDING"

	// TransactionReleased means the driver was paid out. Terminal.
	TransactionReleased TransactionStatus = "RELEASED"
)

// Validate checks that the status is known.
func (s TransactionStatus) Validate() error {
	switch s {
	case TransactionPending, TransactionReleased:
		return nil
	default:
		return errs.NewValueIsInvalidError("transactionStatus")
	}
}

// Transaction is the escrow record opened when a driver is assigned to an
// order and released when the customer confirms delivery. The service fee
// is computed once, at opening, and never recomputed.
type Transaction struct {
	id         kernel.UUID
	orderID    kernel.UUID
	driverID   kernel.UUID
	amount     float64
	serviceFee float64
	status     TransactionStatus

	isConstructed bool
}

// NewTransaction opens a PENDING escrow transaction over the order's
// effective price. feePercent is the platform's cut in percent; the fee
// is rounded to whole currency units.
func NewTransaction(id, orderID, driverID kernel.UUID, amount, feePercent float64) (*Transaction, error) {
	tx := &Transaction{
		status:        TransactionPending,
		isConstructed: true,
	}

	if err := errors.Join(
		tx.setID(id),
		tx.setOrderID(orderID),
		tx.setDriverID(driverID),
		tx.setAmount(amount),
	); err != nil {
		return nil, err
	}

	if feePercent < 0 || feePercent > 100 {
		return nil, errs.NewValueIsOutOfRangeError("feePercent", feePercent, 0, 100)
	}
	tx.serviceFee = math.Round(amount * feePercent / 100)

	return tx, nil
}

// RestoreTransaction reconstructs a Transaction from persistence.
func RestoreTransaction(
	id, orderID, driverID kernel.UUID, amount, serviceFee float64, status TransactionStatus,
) (*Transaction, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		status:        TransactionPending,
		isConstructed: true,
	}

	if err := errors.Join(
		tx.setID(id),
		tx.setOrderID(orderID),
		tx.setDriverID(driverID),
		tx.setAmount(amount),
	); err != nil {
		return nil, err
	}

	tx.serviceFee = serviceFee
	tx.status = status
	return tx, nil
}

// Validate ensures the Transaction was created via a constructor.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// OrderID returns the order this escrow belongs to.
func (t *Transaction) OrderID() kernel.UUID {
	return t.orderID
}

// DriverID returns the driver to be paid out.
func (t *Transaction) DriverID() kernel.UUID {
	return t.driverID
}

// Amount returns the escrowed amount.
func (t *Transaction) Amount() float64 {
	return t.amount
}

// ServiceFee returns the platform fee withheld at release.
func (t *Transaction) ServiceFee() float64 {
	return t.serviceFee
}

// Status returns the escrow state.
func (t *Transaction) Status() TransactionStatus {
	return t.status
}

// Payout returns the amount the driver receives at release.
func (t *Transaction) Payout() float64 {
	return t.amount - t.serviceFee
}

// Release pays the escrow out. A transaction may be released exactly
// once; repeated release attempts fail.
func (t *Transaction) Release() error {
	if t.status != TransactionPending {
		return errs.NewStateIsInvalidError("transaction", "transaction is already released")
	}

	t.status = TransactionReleased
	return nil
}

func (t *Transaction) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Transaction) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	t.orderID = id
	return nil
}

func (t *Transaction) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	t.driverID = id
	return nil
}

func (t *Transaction) setAmount(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}
	t.amount = amount
	return nil
}
