package model

import "errors"

var (
	// ErrNotFound is returned when a requested resource does not exist and
	// reporting that fact is safe.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so that login failures cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthenticated is returned when a caller's identity cannot be
	// established: missing, expired, revoked or wrong-kind tokens, and any
	// failure inside the refresh/reset/verify flows.
	ErrUnauthenticated = errors.New("please authenticate")

	// ErrForbidden is returned when the caller is authenticated but lacks
	// the rights required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrEmailTaken is returned when creating or updating a user with an
	// email that already belongs to another account.
	ErrEmailTaken = errors.New("email already taken")
)
