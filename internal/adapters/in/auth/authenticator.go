// Package auth verifies bearer tokens for the HTTP and WebSocket
// entrypoints. Tokens are issued elsewhere; this package only checks the
// signature and extracts the caller's identity.
package auth

import (
	"errors"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token is invalid")

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID kernel.UUID
	Role   account.Role
	Name   string
	Phone  string
}

// tokenClaims is the expected token payload: the standard subject plus
// the marketplace profile fields.
type tokenClaims struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HMAC-signed bearer tokens.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator with the shared signing
// secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Verify checks the token signature and returns the caller's identity.
// Any parsing or validation failure comes back as ErrInvalidToken so the
// transport layer can answer uniformly.
func (a *Authenticator) Verify(token string) (Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	role, err := account.RoleFromString(claims.Role)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID: userID,
		Role:   role,
		Name:   claims.Name,
		Phone:  claims.Phone,
	}, nil
}
