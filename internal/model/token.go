package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind is the closed enumeration of token types the subsystem issues.
type TokenKind string

const (
	KindAccess        TokenKind = "access"
	KindRefresh       TokenKind = "refresh"
	KindResetPassword TokenKind = "reset_password"
	KindVerifyEmail   TokenKind = "verify_email"
)

// Valid reports whether k is one of the known token kinds.
func (k TokenKind) Valid() bool {
	switch k {
	case KindAccess, KindRefresh, KindResetPassword, KindVerifyEmail:
		return true
	}
	return false
}

// Persisted reports whether tokens of this kind get a store record.
// Access tokens are pure bearer credentials and are never persisted.
func (k TokenKind) Persisted() bool {
	return k != KindAccess
}

// TokenClaims are the verified contents of a signed token.
type TokenClaims struct {
	UserID    uuid.UUID
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner signs and verifies compact signed tokens. Verification checks
// only signature and expiry; it never consults storage.
type TokenSigner interface {
	Sign(userID uuid.UUID, kind TokenKind, expiresAt time.Time) (string, error)
	Parse(token string) (TokenClaims, error)
}

// TokenInfo is an issued token together with its expiry.
type TokenInfo struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair is the access/refresh pair issued on login, register and refresh.
type TokenPair struct {
	Access  TokenInfo `json:"access"`
	Refresh TokenInfo `json:"refresh"`
}
