package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mkazak/authgate/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

// UserStore is a testify mock for model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User, password string) (model.User, error) {
	args := m.Called(ctx, user, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.User, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, password string) (model.User, error) {
	args := m.Called(ctx, id, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) MarkEmailVerified(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
