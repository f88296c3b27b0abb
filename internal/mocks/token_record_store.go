package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mkazak/authgate/internal/model"
)

var _ model.TokenRecordStore = (*TokenRecordStore)(nil)

// TokenRecordStore is a testify mock for model.TokenRecordStore.
type TokenRecordStore struct {
	mock.Mock
}

func (m *TokenRecordStore) Create(ctx context.Context, record model.TokenRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *TokenRecordStore) GetByID(ctx context.Context, id uuid.UUID) (model.TokenRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.TokenRecord), args.Error(1)
}

func (m *TokenRecordStore) FindOne(ctx context.Context, token string, kind model.TokenKind, userID uuid.UUID) (model.TokenRecord, error) {
	args := m.Called(ctx, token, kind, userID)
	return args.Get(0).(model.TokenRecord), args.Error(1)
}

func (m *TokenRecordStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TokenRecordStore) DeleteAllByUserAndKind(ctx context.Context, userID uuid.UUID, kind model.TokenKind) error {
	args := m.Called(ctx, userID, kind)
	return args.Error(0)
}
