package middleware

import (
	"context"
	"errors"
	"strings"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const actorKey = "actor"

// TokenValidator resolves a bearer token into the acting user
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*service.Actor, error)
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		actor, err := validator.ValidateToken(c.UserContext(), tokenString)
		if err != nil {
			status := fiber.StatusUnauthorized
			if !errors.Is(err, apperror.ErrUnauthorized) {
				status = fiber.StatusInternalServerError
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}

		// Set user info in context for downstream handlers
		c.Locals(actorKey, *actor)
		c.Locals("user_id", actor.UserID.String())
		c.Locals("user_email", actor.Email)
		c.Locals("user_name", actor.Name)
		c.Locals("user_role", actor.Role)

		return c.Next()
	}
}

// RequireRole lets the request through only for one of the given roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(roles, ", ") + " roles",
		})
	}
}

// ActorFrom returns the actor stored by RequireAuth, or the zero Actor
func ActorFrom(c *fiber.Ctx) service.Actor {
	if actor, ok := c.Locals(actorKey).(service.Actor); ok {
		return actor
	}
	id, _ := uuid.Parse(stringLocal(c, "user_id"))
	return service.Actor{
		UserID: id,
		Email:  stringLocal(c, "user_email"),
		Name:   stringLocal(c, "user_name"),
		Role:   stringLocal(c, "user_role"),
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		// browsers cannot set headers on a websocket upgrade; other requests
		// must not carry the token in a loggable query string
		if websocket.IsWebSocketUpgrade(c) {
			if token := c.Query("token"); token != "" {
				return token, nil
			}
		}
		return "", errors.New("Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("Invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}

func stringLocal(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
