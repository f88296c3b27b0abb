package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// mailTimeout bounds the detached delivery of reset/verify emails.
const mailTimeout = 30 * time.Second

// Auth implements the authentication flows: login, logout, refresh,
// password reset and email verification. It composes the user directory,
// the token service and the mailer.
type Auth struct {
	users  model.UserStore
	tokens *TokenService
	mailer model.Mailer
	logger *logger.Logger
}

func NewAuth(users model.UserStore, tokens *TokenService, mailer model.Mailer, logger *logger.Logger) *Auth {
	return &Auth{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// Register creates a user and issues an initial token pair.
func (a *Auth) Register(ctx context.Context, name, email, password string) (model.User, model.TokenPair, error) {
	a.logger.Debug("Auth service: registering user", "email", email)

	user, err := a.users.Create(ctx, model.User{
		Name:  name,
		Email: email,
		Role:  model.RoleUser,
	}, password)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, model.TokenPair{}, err
	}

	pair, err := a.tokens.GeneratePair(ctx, user)
	if err != nil {
		return model.User{}, model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return user, pair, nil
}

// Login checks credentials and issues a token pair. Unknown email and
// wrong password both fail with ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, model.TokenPair, error) {
	a.logger.Debug("Auth service: login attempt", "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.TokenPair{}, model.ErrInvalidCredentials
		}
		return model.User{}, model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.PasswordMatches(password) {
		return model.User{}, model.TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.tokens.GeneratePair(ctx, user)
	if err != nil {
		return model.User{}, model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: login succeeded", "user_id", user.ID)

	return user, pair, nil
}

// Logout revokes the presented refresh token.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	record, err := a.tokens.Verify(ctx, refreshToken, model.KindRefresh)
	if err != nil {
		a.logger.Debug("Auth service: logout with invalid refresh token", "error", err.Error())
		return model.ErrUnauthenticated
	}

	if err := a.tokens.RevokeByID(ctx, record.ID); err != nil {
		a.logger.Debug("Auth service: logout revoke failed", "error", err.Error())
		return model.ErrUnauthenticated
	}

	a.logger.Info("Auth service: logout succeeded", "user_id", record.UserID)

	return nil
}

// Refresh rotates a refresh token: the consumed record is revoked and a
// fresh pair issued. Every failure collapses to ErrUnauthenticated so
// callers cannot distinguish expired from tampered from already used.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	record, err := a.tokens.Verify(ctx, refreshToken, model.KindRefresh)
	if err != nil {
		a.logger.Debug("Auth service: refresh verification failed", "error", err.Error())
		return model.TokenPair{}, model.ErrUnauthenticated
	}

	user, err := a.users.GetByID(ctx, record.UserID)
	if err != nil {
		a.logger.Debug("Auth service: refresh for missing user",
			"user_id", record.UserID,
			"error", err.Error())
		return model.TokenPair{}, model.ErrUnauthenticated
	}

	// Rotation: the old token is single-use. A concurrent refresh with the
	// same token loses this delete and fails.
	if err := a.tokens.RevokeByID(ctx, record.ID); err != nil {
		a.logger.Debug("Auth service: refresh rotation failed", "error", err.Error())
		return model.TokenPair{}, model.ErrUnauthenticated
	}

	pair, err := a.tokens.GeneratePair(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue rotated pair",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, model.ErrUnauthenticated
	}

	a.logger.Info("Auth service: tokens refreshed", "user_id", user.ID)

	return pair, nil
}

// RequestPasswordReset mints a reset token for the account with the given
// email and hands it to the mailer. Reports ErrNotFound for unknown emails.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	resetToken, err := a.tokens.MintSingleUse(ctx, user, model.KindResetPassword)
	if err != nil {
		return fmt.Errorf("failed to mint reset token: %w", err)
	}

	a.sendDetached(user.Email, resetToken, a.mailer.SendResetPasswordEmail)

	a.logger.Info("Auth service: password reset requested", "user_id", user.ID)

	return nil
}

// ResetPassword consumes a reset token and replaces the user's password.
// All outstanding reset tokens for the user are invalidated, including the
// one just used. Failures collapse to ErrUnauthenticated.
func (a *Auth) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	record, err := a.tokens.Verify(ctx, resetToken, model.KindResetPassword)
	if err != nil {
		a.logger.Debug("Auth service: password reset failed", "error", err.Error())
		return model.ErrUnauthenticated
	}

	user, err := a.users.GetByID(ctx, record.UserID)
	if err != nil {
		a.logger.Debug("Auth service: password reset for missing user", "error", err.Error())
		return model.ErrUnauthenticated
	}

	if err := a.tokens.RevokeAllForOwner(ctx, user.ID, model.KindResetPassword); err != nil {
		a.logger.Debug("Auth service: failed to revoke reset tokens", "error", err.Error())
		return model.ErrUnauthenticated
	}

	if _, err := a.users.UpdatePassword(ctx, user.ID, newPassword); err != nil {
		a.logger.Error("Auth service: failed to update password",
			"user_id", user.ID,
			"error", err.Error())
		return model.ErrUnauthenticated
	}

	a.logger.Info("Auth service: password reset completed", "user_id", user.ID)

	return nil
}

// SendVerificationEmail mints a verify-email token for an already
// authenticated principal and hands it to the mailer.
func (a *Auth) SendVerificationEmail(ctx context.Context, user model.User) error {
	verifyToken, err := a.tokens.MintSingleUse(ctx, user, model.KindVerifyEmail)
	if err != nil {
		return fmt.Errorf("failed to mint verify token: %w", err)
	}

	a.sendDetached(user.Email, verifyToken, a.mailer.SendVerificationEmail)

	a.logger.Info("Auth service: verification email requested", "user_id", user.ID)

	return nil
}

// VerifyEmail consumes a verify-email token and marks the user's email
// verified. Failures collapse to ErrUnauthenticated.
func (a *Auth) VerifyEmail(ctx context.Context, verifyToken string) error {
	record, err := a.tokens.Verify(ctx, verifyToken, model.KindVerifyEmail)
	if err != nil {
		a.logger.Debug("Auth service: email verification failed", "error", err.Error())
		return model.ErrUnauthenticated
	}

	user, err := a.users.GetByID(ctx, record.UserID)
	if err != nil {
		a.logger.Debug("Auth service: email verification for missing user", "error", err.Error())
		return model.ErrUnauthenticated
	}

	if err := a.tokens.RevokeAllForOwner(ctx, user.ID, model.KindVerifyEmail); err != nil {
		a.logger.Debug("Auth service: failed to revoke verify tokens", "error", err.Error())
		return model.ErrUnauthenticated
	}

	if _, err := a.users.MarkEmailVerified(ctx, user.ID); err != nil {
		a.logger.Error("Auth service: failed to mark email verified",
			"user_id", user.ID,
			"error", err.Error())
		return model.ErrUnauthenticated
	}

	a.logger.Info("Auth service: email verified", "user_id", user.ID)

	return nil
}

// sendDetached delivers an email without blocking or failing the caller.
// Delivery errors go to the operational log only.
func (a *Auth) sendDetached(to, token string, send func(context.Context, string, string) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := send(ctx, to, token); err != nil {
			a.logger.Error("Auth service: email delivery failed",
				"to", to,
				"error", err.Error())
		}
	}()
}
