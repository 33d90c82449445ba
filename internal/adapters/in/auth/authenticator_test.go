package auth_test

import (
	"testing"
	"time"

	"freight/internal/adapters/in/auth"
	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticator_Verify(t *testing.T) {
	authenticator, err := auth.NewAuthenticator(testSecret)
	require.NoError(t, err)

	userID := kernel.NewUUID()

	t.Run("should extract identity from a valid token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":   userID.String(),
			"role":  "DRIVER",
			"name":  "Taras",
			"phone": "+380501112233",
		})

		identity, err := authenticator.Verify(token)
		require.NoError(t, err)
		assert.True(t, identity.UserID.IsEqual(userID))
		assert.Equal(t, account.RoleDriver, identity.Role)
		assert.Equal(t, "Taras", identity.Name)
		assert.Equal(t, "+380501112233", identity.Phone)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		token := signToken(t, "wrong-secret", jwt.MapClaims{
			"sub":  userID.String(),
			"role": "DRIVER",
		})

		_, err := authenticator.Verify(token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  userID.String(),
			"role": "DRIVER",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})

		_, err := authenticator.Verify(token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("should reject a malformed subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "not-a-uuid",
			"role": "DRIVER",
		})

		_, err := authenticator.Verify(token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("should reject an unknown role", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  userID.String(),
			"role": "GUEST",
		})

		_, err := authenticator.Verify(token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := authenticator.Verify("definitely.not.a.token")
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestNewAuthenticator_RequiresSecret(t *testing.T) {
	_, err := auth.NewAuthenticator("")
	require.Error(t, err)
}
