package model

import "errors"

var (
	ErrTokenInvalid  = errors.New("token signature invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenNotFound = errors.New("token not found")
	ErrKindMismatch  = errors.New("token kind mismatch")
)
