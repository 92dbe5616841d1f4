package handler

import (
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/middleware"
	"aroma-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	log         *logger.Logger
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, log: log}
}

// Register creates a staff account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered", "data": user})
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	response, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(response)
}

// ValidateToken reports whether the bearer token is still usable
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	_ = c.BodyParser(&req)
	token := req.Token
	if token == "" {
		if header := c.Get(fiber.HeaderAuthorization); len(header) > 7 {
			token = header[7:]
		}
	}

	actor, err := h.authService.ValidateToken(c.UserContext(), token)
	if err != nil {
		return respondError(c, h.log, err)
	}
	user, err := h.userService.GetUser(c.UserContext(), actor.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"valid": true, "user": user})
}

// ChangePassword handles password change
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.authService.ChangePassword(c.UserContext(), middleware.ActorFrom(c), req); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed, please log in again"})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ActorFrom(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated user
// GET /api/v1/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), middleware.ActorFrom(c).UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}
