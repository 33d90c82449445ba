package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"freight/internal/adapters/in/auth"
	"freight/internal/core/domain/model/account"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const identityContextKey = "identity"

// AuthMiddleware verifies bearer tokens and resolves the caller's
// account. Accounts are provisioned lazily from verified token claims on
// first contact; blocked accounts are rejected across the board.
type AuthMiddleware struct {
	authenticator *auth.Authenticator
	accounts      ports.AccountRepository
	log           *slog.Logger
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(
	authenticator *auth.Authenticator,
	accounts ports.AccountRepository,
	log *slog.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		accounts:      accounts,
		log:           log.With("component", "auth"),
	}
}

// Authenticate is the echo middleware entry point.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "missing bearer token",
			})
		}

		identity, err := m.authenticator.Verify(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid token",
			})
		}

		caller, err := m.resolveAccount(c, identity)
		if err != nil {
			return respondError(c, err)
		}
		if caller.Blocked() {
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "account is blocked",
			})
		}

		c.Set(identityContextKey, identity)
		return next(c)
	}
}

// resolveAccount loads the caller's account, creating it from the token
// claims when this identity is seen for the first time.
func (m *AuthMiddleware) resolveAccount(c echo.Context, identity auth.Identity) (*account.Account, error) {
	ctx := c.Request().Context()

	caller, err := m.accounts.Get(ctx, identity.UserID)
	if err == nil {
		return caller, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	caller, err = account.NewAccount(identity.UserID, identity.Name, identity.Phone, identity.Role)
	if err != nil {
		return nil, err
	}
	if err := m.accounts.Add(ctx, caller); err != nil {
		return nil, err
	}

	m.log.Info("provisioned account from token",
		"userId", identity.UserID.String(), "role", identity.Role.String())
	return caller, nil
}

// currentIdentity returns the authenticated caller stored by the
// middleware.
func currentIdentity(c echo.Context) auth.Identity {
	identity, _ := c.Get(identityContextKey).(auth.Identity)
	return identity
}
