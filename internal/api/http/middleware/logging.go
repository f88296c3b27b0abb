package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	duration := time.Since(start)
	status := c.Response().StatusCode()
	if err != nil {
		// The error handler runs after this middleware returns; resolve
		// the status the same way so the log matches the wire.
		status = errorStatus(err)
	}

	l.logger.Info("HTTP request completed",
		"method", c.Method(),
		"path", c.Path(),
		"duration_ms", duration.Milliseconds(),
		"status", status)

	if err != nil {
		l.logger.Error("HTTP request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error())
	}

	return err
}

func errorStatus(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
