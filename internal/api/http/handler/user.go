package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// UserService defines user directory management consumed by the handler.
type UserService interface {
	Create(ctx context.Context, name, email, password string, role model.Role) (model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User handles HTTP endpoints for user management.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{
		userService: userService,
		logger:      logger,
	}
}

// Create adds a user with an explicit role.
func (h *User) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.UserContext(), req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// List returns users, optionally filtered by role.
func (h *User) List(c *fiber.Ctx) error {
	filter := model.UserFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if role := c.Query("role"); role != "" {
		r := model.Role(role)
		filter.Role = &r
	}

	users, err := h.userService.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(users)
}

// Get returns a single user by id.
func (h *User) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(user)
}

// Update applies the permitted fields of the request to a user.
func (h *User) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.UserContext(), id, req.toUpdate())
	if err != nil {
		return err
	}

	return c.JSON(user)
}

// Delete removes a user.
func (h *User) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.userService.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
