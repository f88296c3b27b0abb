package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkazak/authgate/internal/model"
)

var (
	_ model.Mailer   = (*Mailer)(nil)
	_ model.Notifier = (*Notifier)(nil)
)

// Mailer is a testify mock for model.Mailer.
type Mailer struct {
	mock.Mock
}

func (m *Mailer) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

// Notifier is a testify mock for model.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
