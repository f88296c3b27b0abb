package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/mkazak/authgate/internal/model"
)

// SMTPNotifier delivers messages over SMTP.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

var _ model.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates an SMTP-backed notifier. Credentials are optional
// for unauthenticated relays.
func NewSMTPNotifier(host string, port int, username, password, from string) (*SMTPNotifier, error) {
	opts := []mail.Option{mail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPNotifier{client: client, from: from}, nil
}

// Send delivers a single HTML message.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// EmailService composes the subsystem's outbound emails and hands them to
// a notifier.
type EmailService struct {
	notifier model.Notifier
	appURL   string
}

var _ model.Mailer = (*EmailService)(nil)

func NewEmailService(notifier model.Notifier, appURL string) *EmailService {
	return &EmailService{notifier: notifier, appURL: appURL}
}

// SendResetPasswordEmail sends the reset link with the raw token embedded.
func (s *EmailService) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	subject := "Reset password"
	body := fmt.Sprintf(
		`<p>You requested to reset your password. Click <a href="%s/reset-password?token=%s">here</a> to reset it.</p>`,
		s.appURL, token,
	)
	return s.notifier.Send(ctx, to, subject, body)
}

// SendVerificationEmail sends the email verification link.
func (s *EmailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	subject := "Verify email"
	body := fmt.Sprintf(
		`<p>Click <a href="%s/verify-email?token=%s">here</a> to verify your email.</p>`,
		s.appURL, token,
	)
	return s.notifier.Send(ctx, to, subject, body)
}
