package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkazak/authgate/internal/mocks"
	"github.com/mkazak/authgate/internal/model"
	"github.com/mkazak/authgate/internal/testutil"
)

func testTTL() TTLConfig {
	return TTLConfig{
		Access:        15 * time.Minute,
		Refresh:       720 * time.Hour,
		ResetPassword: 10 * time.Minute,
		VerifyEmail:   10 * time.Minute,
	}
}

func TestTokenService_GeneratePair(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New()}

	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Sign", user.ID, model.KindAccess, mock.Anything).Return("access", nil).Once()
	signer.On("Sign", user.ID, model.KindRefresh, mock.Anything).Return("refresh", nil).Once()

	var created model.TokenRecord
	store.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(model.TokenRecord)
	}).Return(nil).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	pair, err := svc.GeneratePair(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "access", pair.Access.Token)
	assert.Equal(t, "refresh", pair.Refresh.Token)

	// Only the refresh token is persisted.
	assert.Equal(t, model.KindRefresh, created.Kind)
	assert.Equal(t, "refresh", created.Token)
	assert.Equal(t, user.ID, created.UserID)
}

func TestTokenService_GeneratePair_AccessExpiresFirst(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New()}

	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Sign", user.ID, mock.Anything, mock.Anything).Return("tok", nil)
	store.On("Create", ctx, mock.Anything).Return(nil)

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	pair, err := svc.GeneratePair(ctx, user)
	require.NoError(t, err)
	assert.True(t, pair.Access.ExpiresAt.Before(pair.Refresh.ExpiresAt))
}

func TestTokenService_GeneratePair_SignerError(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New()}

	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Sign", user.ID, model.KindAccess, mock.Anything).Return("", assert.AnError).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	_, err := svc.GeneratePair(ctx, user)
	require.Error(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTokenService_MintSingleUse(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New()}

	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Sign", user.ID, model.KindResetPassword, mock.Anything).Return("reset", nil).Once()

	var created model.TokenRecord
	store.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(model.TokenRecord)
	}).Return(nil).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	signed, err := svc.MintSingleUse(ctx, user, model.KindResetPassword)
	require.NoError(t, err)
	assert.Equal(t, "reset", signed)
	assert.Equal(t, model.KindResetPassword, created.Kind)
}

func TestTokenService_MintSingleUse_RejectsPairKinds(t *testing.T) {
	svc := NewTokenService(&mocks.TokenSigner{}, &mocks.TokenRecordStore{}, testTTL(), testutil.MakeNoopLogger())

	for _, kind := range []model.TokenKind{model.KindAccess, model.KindRefresh} {
		_, err := svc.MintSingleUse(context.Background(), model.User{ID: uuid.New()}, kind)
		require.Error(t, err)
	}
}

func TestTokenService_Verify_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recordID := uuid.New()

	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Parse", "refresh").Return(model.TokenClaims{
		UserID:    userID,
		Kind:      model.KindRefresh,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	store.On("FindOne", ctx, "refresh", model.KindRefresh, userID).Return(model.TokenRecord{
		ID:     recordID,
		UserID: userID,
		Kind:   model.KindRefresh,
	}, nil).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	record, err := svc.Verify(ctx, "refresh", model.KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, recordID, record.ID)
}

func TestTokenService_Verify_BadSignature(t *testing.T) {
	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Parse", "tampered").Return(model.TokenClaims{}, model.ErrTokenInvalid).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	_, err := svc.Verify(context.Background(), "tampered", model.KindRefresh)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
	store.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenService_Verify_KindMismatch(t *testing.T) {
	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Parse", "reset").Return(model.TokenClaims{
		UserID: uuid.New(),
		Kind:   model.KindResetPassword,
	}, nil).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	_, err := svc.Verify(context.Background(), "reset", model.KindRefresh)
	require.ErrorIs(t, err, model.ErrKindMismatch)
}

func TestTokenService_Verify_RecordMissing(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	signer := &mocks.TokenSigner{}
	store := &mocks.TokenRecordStore{}

	signer.On("Parse", "revoked").Return(model.TokenClaims{
		UserID: userID,
		Kind:   model.KindRefresh,
	}, nil).Once()
	store.On("FindOne", ctx, "revoked", model.KindRefresh, userID).
		Return(model.TokenRecord{}, model.ErrNotFound).Once()

	svc := NewTokenService(signer, store, testTTL(), testutil.MakeNoopLogger())

	// Signature-valid but revoked/consumed: the record lookup decides.
	_, err := svc.Verify(ctx, "revoked", model.KindRefresh)
	require.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	userID := uuid.New()

	store := &mocks.TokenRecordStore{}
	store.On("DeleteByID", ctx, id).Return(nil).Once()
	store.On("DeleteAllByUserAndKind", ctx, userID, model.KindResetPassword).Return(nil).Once()

	svc := NewTokenService(&mocks.TokenSigner{}, store, testTTL(), testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeByID(ctx, id))
	require.NoError(t, svc.RevokeAllForOwner(ctx, userID, model.KindResetPassword))
	store.AssertExpectations(t)
}
