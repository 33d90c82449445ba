// Package ledgerrepo persists escrow transactions, one per driver
// assignment, released to the driver's balance at completion.
package ledgerrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/ledger"
)

// TransactionDTO represents the database structure for persisting escrow
// transactions.
type TransactionDTO struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	OrderID    string `gorm:"type:uuid;index"`
	DriverID   string `gorm:"type:uuid;index"`
	Amount     float64
	ServiceFee float64
	Status     string `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for escrow transactions.
func (TransactionDTO) TableName() string {
	return "ledger_transactions"
}

// fromDomain converts a transaction aggregate to its database
// representation.
func fromDomain(aggregate *ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:         aggregate.ID().String(),
		OrderID:    aggregate.OrderID().String(),
		DriverID:   aggregate.DriverID().String(),
		Amount:     aggregate.Amount(),
		ServiceFee: aggregate.ServiceFee(),
		Status:     string(aggregate.Status()),
	}
}

// toDomain converts a database DTO back into a transaction aggregate.
func toDomain(dto TransactionDTO) (*ledger.Transaction, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromString(dto.OrderID)
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromString(dto.DriverID)
	if err != nil {
		return nil, err
	}

	return ledger.RestoreTransaction(
		id, orderID, driverID,
		dto.Amount, dto.ServiceFee,
		ledger.TransactionStatus(dto.Status),
	)
}
