package handler

import (
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/middleware"
	"aroma-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	service service.ClientService
	log     *logger.Logger
}

func NewClientHandler(s service.ClientService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{service: s, log: log}
}

// POST /api/v1/clients/individual
func (h *ClientHandler) CreateIndividual(c *fiber.Ctx) error {
	var req service.IndividualClientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	client, err := h.service.CreateIndividual(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Client created", "data": client})
}

// POST /api/v1/clients/business
func (h *ClientHandler) CreateBusiness(c *fiber.Ctx) error {
	var req service.BusinessClientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	client, err := h.service.CreateBusiness(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Client created", "data": client})
}

// PUT /api/v1/clients/individual/:id
func (h *ClientHandler) UpdateIndividual(c *fiber.Ctx) error {
	var req service.IndividualClientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	client, err := h.service.UpdateIndividual(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Client updated", "data": client})
}

// PUT /api/v1/clients/business/:id
func (h *ClientHandler) UpdateBusiness(c *fiber.Ctx) error {
	var req service.BusinessClientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	client, err := h.service.UpdateBusiness(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Client updated", "data": client})
}

// GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.service.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(client)
}

// GetClients lists clients
// Query params: type, active, search, page, page_size
func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	clients, err := h.service.ListClients(c.UserContext(), service.ClientQuery{
		Type:     c.Query("type"),
		Active:   optionalBool(c.Query("active")),
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(clients)
}

// POST /api/v1/clients/:id/deactivate
func (h *ClientHandler) DeactivateClient(c *fiber.Ctx) error {
	client, err := h.service.DeactivateClient(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Client deactivated", "data": client})
}
