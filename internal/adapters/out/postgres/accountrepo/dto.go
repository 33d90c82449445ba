// Package accountrepo persists user accounts, including the driver
// balances credited at settlement.
package accountrepo

import (
	"time"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
)

// AccountDTO represents the database structure for persisting accounts.
type AccountDTO struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	Name    string
	Phone   string
	City    string
	Role    string
	Blocked bool
	Balance float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for account entities.
func (AccountDTO) TableName() string {
	return "accounts"
}

// fromDomain converts an account aggregate to its database representation.
func fromDomain(aggregate *account.Account) AccountDTO {
	return AccountDTO{
		ID:      aggregate.ID().String(),
		Name:    aggregate.Name(),
		Phone:   aggregate.Phone(),
		City:    aggregate.City(),
		Role:    aggregate.Role().String(),
		Blocked: aggregate.Blocked(),
		Balance: aggregate.Balance(),
	}
}

// toDomain converts a database DTO back into an account aggregate.
func toDomain(dto AccountDTO) (*account.Account, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	role, err := account.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	return account.RestoreAccount(id, dto.Name, dto.Phone, dto.City, role, dto.Blocked, dto.Balance)
}
