package account_test

import (
	"testing"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_CanActAs(t *testing.T) {
	tests := []struct {
		role     account.Role
		required account.Role
		want     bool
	}{
		{account.RoleDriver, account.RoleDriver, true},
		{account.RoleDriver, account.RoleCustomer, false},
		{account.RoleCustomer, account.RoleCustomer, true},
		{account.RoleCustomer, account.RoleDriver, false},
		{account.RoleBoth, account.RoleDriver, true},
		{account.RoleBoth, account.RoleCustomer, true},
		{account.RoleBoth, account.RoleAdmin, false},
		{account.RoleAdmin, account.RoleAdmin, true},
		{account.RoleAdmin, account.RoleDriver, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_as_"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.CanActAs(tt.required))
		})
	}
}

func TestRoleFromString(t *testing.T) {
	t.Run("should parse known roles", func(t *testing.T) {
		for _, s := range []string{"DRIVER", "CUSTOMER", "ADMIN", "BOTH"} {
			r, err := account.RoleFromString(s)
			require.NoError(t, err)
			assert.Equal(t, s, r.String())
		}
	})

	t.Run("should reject unknown role", func(t *testing.T) {
		_, err := account.RoleFromString("DISPATCHER")
		require.Error(t, err)
	})
}

func TestNewAccount(t *testing.T) {
	t.Run("should create a valid account", func(t *testing.T) {
		id := kernel.NewUUID()

		a, err := account.NewAccount(id, "Oleh", "+380501112233", account.RoleBoth)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.ID().IsEqual(id))
		assert.Equal(t, "Oleh", a.Name())
		assert.Equal(t, "+380501112233", a.Phone())
		assert.False(t, a.Blocked())
		assert.InDelta(t, 0, a.Balance(), 1e-9)
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := account.NewAccount(kernel.NewUUID(), "", "", account.RoleDriver)
		require.Error(t, err)
	})

	t.Run("should reject invalid role", func(t *testing.T) {
		_, err := account.NewAccount(kernel.NewUUID(), "Oleh", "", account.Role("NOPE"))
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var a account.Account
		require.Error(t, a.Validate())
	})
}

func TestAccount_Balance(t *testing.T) {
	newAccount := func(t *testing.T) *account.Account {
		a, err := account.NewAccount(kernel.NewUUID(), "Iryna", "", account.RoleDriver)
		require.NoError(t, err)
		return a
	}

	t.Run("credit increases balance", func(t *testing.T) {
		a := newAccount(t)

		require.NoError(t, a.Credit(980))

		assert.InDelta(t, 980, a.Balance(), 1e-9)
	})

	t.Run("credit rejects non-positive amount", func(t *testing.T) {
		a := newAccount(t)
		require.Error(t, a.Credit(0))
		require.Error(t, a.Credit(-5))
	})

	t.Run("debit decreases balance", func(t *testing.T) {
		a := newAccount(t)
		require.NoError(t, a.Credit(100))

		require.NoError(t, a.Debit(40))

		assert.InDelta(t, 60, a.Balance(), 1e-9)
	})

	t.Run("debit fails on insufficient balance", func(t *testing.T) {
		a := newAccount(t)
		require.NoError(t, a.Credit(10))

		err := a.Debit(11)

		require.ErrorIs(t, err, account.ErrInsufficientBalance)
		assert.InDelta(t, 10, a.Balance(), 1e-9)
	})
}
