package handler

import (
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/middleware"
	"aroma-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
	log         *logger.Logger
}

func NewUserHandler(userService service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	user, err := h.userService.CreateUser(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// UpdateUser updates name and email
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "user")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "User updated successfully", "data": user})
}

// DeactivateUser
// POST /api/v1/users/:id/deactivate
func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "user")
	if err != nil {
		return respondError(c, h.log, err)
	}
	user, err := h.userService.DeactivateUser(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "User deactivated", "data": user})
}

// GetUsers
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(users)
}

// GetUser
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "user")
	if err != nil {
		return respondError(c, h.log, err)
	}
	user, err := h.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}
