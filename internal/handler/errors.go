package handler

import (
	"errors"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps a domain error kind onto an HTTP status
func statusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindDuplicate, apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindInsufficientStock:
		return fiber.StatusUnprocessableEntity
	case apperror.KindInvalidArgument:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	body := fiber.Map{"error": err.Error()}
	var ise *apperror.InsufficientStockError
	if errors.As(err, &ise) {
		body["product_id"] = ise.ProductID
		body["requested"] = ise.Requested
		body["available"] = ise.Available
	}
	return c.Status(status).JSON(body)
}

func parseID(c *fiber.Ctx, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Invalid("Invalid %s ID", entity)
	}
	return id, nil
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}
