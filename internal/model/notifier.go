package model

import "context"

// Notifier delivers a message to an address. Implementations are external
// collaborators; delivery failure is an operational concern, not a caller
// visible one.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Mailer composes and sends the subsystem's outbound emails.
type Mailer interface {
	SendResetPasswordEmail(ctx context.Context, to, token string) error
	SendVerificationEmail(ctx context.Context, to, token string) error
}
