package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mkazak/authgate/internal/api/http/middleware"
	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// AuthService defines the authentication flows consumed by the handler.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (model.User, model.TokenPair, error)
	Login(ctx context.Context, email, password string) (model.User, model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	SendVerificationEmail(ctx context.Context, user model.User) error
	VerifyEmail(ctx context.Context, verifyToken string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type authResponse struct {
	User   model.User      `json:"user"`
	Tokens model.TokenPair `json:"tokens"`
}

// Register creates a new account and returns the user with an initial
// token pair.
func (h *Auth) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, tokens, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{User: user, Tokens: tokens})
}

// Login checks credentials and returns the user with a token pair.
func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, tokens, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(authResponse{User: user, Tokens: tokens})
}

// Logout revokes the presented refresh token.
func (h *Auth) Logout(c *fiber.Ctx) error {
	var req refreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.authService.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RefreshTokens rotates the refresh token and returns a fresh pair.
func (h *Auth) RefreshTokens(c *fiber.Ctx) error {
	var req refreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	tokens, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(tokens)
}

// ForgotPassword mints a reset token and emails it to the account.
func (h *Auth) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPassword consumes the token from the query string and sets the new
// password.
func (h *Auth) ResetPassword(c *fiber.Ctx) error {
	resetToken := c.Query("token")
	if resetToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token is required")
	}

	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.UserContext(), resetToken, req.Password); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SendVerificationEmail mints a verify token for the authenticated
// principal and emails it.
func (h *Auth) SendVerificationEmail(c *fiber.Ctx) error {
	user, ok := middleware.Principal(c)
	if !ok {
		return model.ErrUnauthenticated
	}

	if err := h.authService.SendVerificationEmail(c.UserContext(), user); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyEmail consumes the token from the query string and marks the email
// verified.
func (h *Auth) VerifyEmail(c *fiber.Ctx) error {
	verifyToken := c.Query("token")
	if verifyToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token is required")
	}

	if err := h.authService.VerifyEmail(c.UserContext(), verifyToken); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
