package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mkazak/authgate/internal/model"
)

// errorResponse is the wire shape of every error reply.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler translates the error taxonomy to HTTP statuses. Internal
// errors are never detailed to the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		status, message = fiber.StatusUnauthorized, model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrUnauthenticated):
		status, message = fiber.StatusUnauthorized, model.ErrUnauthenticated.Error()
	case errors.Is(err, model.ErrForbidden):
		status, message = fiber.StatusForbidden, model.ErrForbidden.Error()
	case errors.Is(err, model.ErrNotFound):
		status, message = fiber.StatusNotFound, model.ErrNotFound.Error()
	case errors.Is(err, model.ErrEmailTaken):
		status, message = fiber.StatusConflict, model.ErrEmailTaken.Error()
	case errors.As(err, &fiberErr):
		status, message = fiberErr.Code, fiberErr.Message
	}

	return c.Status(status).JSON(errorResponse{Code: status, Message: message})
}
