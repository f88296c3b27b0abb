package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// TTLConfig holds the lifetime for each token kind. Access must be well
// below refresh; refresh tokens outlive everything else.
type TTLConfig struct {
	Access        time.Duration
	Refresh       time.Duration
	ResetPassword time.Duration
	VerifyEmail   time.Duration
}

// For returns the lifetime configured for the given kind.
func (c TTLConfig) For(kind model.TokenKind) time.Duration {
	switch kind {
	case model.KindAccess:
		return c.Access
	case model.KindRefresh:
		return c.Refresh
	case model.KindResetPassword:
		return c.ResetPassword
	case model.KindVerifyEmail:
		return c.VerifyEmail
	}
	return 0
}

// TokenService provides high-level operations for minting, verifying and
// revoking tokens. It composes the TokenSigner and TokenRecordStore.
type TokenService struct {
	signer model.TokenSigner
	store  model.TokenRecordStore
	ttl    TTLConfig
	logger *logger.Logger
}

func NewTokenService(signer model.TokenSigner, store model.TokenRecordStore, ttl TTLConfig, logger *logger.Logger) *TokenService {
	return &TokenService{signer: signer, store: store, ttl: ttl, logger: logger}
}

// GeneratePair mints a short-lived access token and a long-lived refresh
// token. Only the refresh token is persisted; the access token is a pure
// bearer credential validated by signature and expiry alone.
func (s *TokenService) GeneratePair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := time.Now()

	accessExpires := now.Add(s.ttl.Access)
	access, err := s.signer.Sign(user.ID, model.KindAccess, accessExpires)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshExpires := now.Add(s.ttl.Refresh)
	refresh, err := s.signer.Sign(user.ID, model.KindRefresh, refreshExpires)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	record := model.TokenRecord{
		ID:        uuid.New(),
		Token:     refresh,
		UserID:    user.ID,
		Kind:      model.KindRefresh,
		ExpiresAt: refreshExpires,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return model.TokenPair{
		Access:  model.TokenInfo{Token: access, ExpiresAt: accessExpires},
		Refresh: model.TokenInfo{Token: refresh, ExpiresAt: refreshExpires},
	}, nil
}

// MintSingleUse signs a reset-password or verify-email token with the
// kind-specific lifetime and persists its record.
func (s *TokenService) MintSingleUse(ctx context.Context, user model.User, kind model.TokenKind) (string, error) {
	if kind != model.KindResetPassword && kind != model.KindVerifyEmail {
		return "", fmt.Errorf("kind %q is not single-use", kind)
	}

	expires := time.Now().Add(s.ttl.For(kind))
	signed, err := s.signer.Sign(user.ID, kind, expires)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	record := model.TokenRecord{
		ID:        uuid.New(),
		Token:     signed,
		UserID:    user.ID,
		Kind:      kind,
		ExpiresAt: expires,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return "", fmt.Errorf("persist %s token: %w", kind, err)
	}

	return signed, nil
}

// Verify checks signature and expiry, then requires a matching,
// non-blacklisted store record with the same subject and kind. The record
// lookup is the actual revocation/single-use check: a signature-valid but
// already-consumed or logged-out token fails here with ErrTokenNotFound.
func (s *TokenService) Verify(ctx context.Context, tokenString string, kind model.TokenKind) (model.TokenRecord, error) {
	claims, err := s.signer.Parse(tokenString)
	if err != nil {
		return model.TokenRecord{}, err
	}
	if claims.Kind != kind {
		return model.TokenRecord{}, model.ErrKindMismatch
	}
	if !kind.Persisted() {
		return model.TokenRecord{}, fmt.Errorf("kind %q has no record to verify", kind)
	}

	record, err := s.store.FindOne(ctx, tokenString, kind, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenRecord{}, model.ErrTokenNotFound
		}
		return model.TokenRecord{}, fmt.Errorf("find token record: %w", err)
	}

	return record, nil
}

// RevokeByID deletes a single token record. ErrNotFound means another
// request consumed the record first.
func (s *TokenService) RevokeByID(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteByID(ctx, id)
}

// RevokeAllForOwner deletes every outstanding record of the given kind for
// the user, superseding any tokens issued earlier in the same flow.
func (s *TokenService) RevokeAllForOwner(ctx context.Context, userID uuid.UUID, kind model.TokenKind) error {
	return s.store.DeleteAllByUserAndKind(ctx, userID, kind)
}
