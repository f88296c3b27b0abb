package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenRecordStore persists revocable token records for the persisted kinds
// (refresh, reset_password, verify_email).
type TokenRecordStore interface {
	// Create inserts a new record. The token string is unique; a collision
	// is an internal error, never a silent overwrite.
	Create(ctx context.Context, record TokenRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (TokenRecord, error)
	// FindOne is the canonical verification lookup: a non-blacklisted
	// record matching token string, kind and owner.
	FindOne(ctx context.Context, token string, kind TokenKind, userID uuid.UUID) (TokenRecord, error)
	// DeleteByID removes a record; it returns ErrNotFound when the record
	// is already gone, which callers must treat as the flow having failed.
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// DeleteAllByUserAndKind invalidates every outstanding record of the
	// given kind for the user.
	DeleteAllByUserAndKind(ctx context.Context, userID uuid.UUID, kind TokenKind) error
}

// TokenRecord is the persisted, revocable handle for a signed token.
// Deleting the record is the revocation/single-use mechanism; the
// blacklisted flag additionally excludes a record from lookups without
// deleting it.
type TokenRecord struct {
	ID          uuid.UUID
	Token       string
	UserID      uuid.UUID
	Kind        TokenKind
	ExpiresAt   time.Time
	Blacklisted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
