package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// User provides user directory management on top of the store.
type User struct {
	users  model.UserStore
	logger *logger.Logger
}

func NewUser(users model.UserStore, logger *logger.Logger) *User {
	return &User{users: users, logger: logger}
}

// Create adds a user with the given role. Defaults to the user role when
// none is given.
func (s *User) Create(ctx context.Context, name, email, password string, role model.Role) (model.User, error) {
	if role == "" {
		role = model.RoleUser
	}

	user, err := s.users.Create(ctx, model.User{
		Name:  name,
		Email: email,
		Role:  role,
	}, password)
	if err != nil {
		s.logger.Error("User service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, err
	}

	s.logger.Info("User service: user created", "user_id", user.ID)

	return user, nil
}

// List returns users matching the filter.
func (s *User) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID returns a single user or model.ErrNotFound.
func (s *User) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update applies the permitted fields of update to the user.
func (s *User) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.User, error) {
	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		s.logger.Error("User service: failed to update user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, err
	}

	s.logger.Info("User service: user updated", "user_id", id)

	return user, nil
}

// Delete removes a user. The token records cascade with the row.
func (s *User) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User service: user deleted", "user_id", id)

	return nil
}
