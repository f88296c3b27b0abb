package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mkazak/authgate/internal/model"
)

var _ model.TokenSigner = (*TokenSigner)(nil)

// TokenSigner is a testify mock for model.TokenSigner.
type TokenSigner struct {
	mock.Mock
}

func (m *TokenSigner) Sign(userID uuid.UUID, kind model.TokenKind, expiresAt time.Time) (string, error) {
	args := m.Called(userID, kind, expiresAt)
	return args.String(0), args.Error(1)
}

func (m *TokenSigner) Parse(token string) (model.TokenClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}
