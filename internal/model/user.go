package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user directory consumed by the auth subsystem. The
// directory owns password hashing: Create and UpdatePassword receive
// plaintext and store a hash.
type UserStore interface {
	Create(ctx context.Context, user User, password string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) (User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User is the principal: the entity tokens are issued to.
type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PasswordMatches compares a plaintext candidate against the stored hash.
func (u User) PasswordMatches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword generates a bcrypt hash for storage in the user directory.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// UserFilter narrows List results.
type UserFilter struct {
	Role   *Role
	Limit  int
	Offset int
}

// UserUpdate enumerates the fields a caller is permitted to change. Nil
// fields are left untouched; there is no ad-hoc merging of request bodies
// into stored records.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}
