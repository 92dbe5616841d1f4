package handler

import (
	"context"
	"strconv"

	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/middleware"
	"aroma-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ProductService
	log     *logger.Logger
}

func NewProductHandler(s service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{service: s, log: log}
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// GetProducts lists products
// Query params: type, active, low_stock, search, page, page_size
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	query := service.ProductQuery{
		Type:     c.Query("type"),
		Active:   optionalBool(c.Query("active")),
		LowStock: c.QueryBool("low_stock", false),
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	products, err := h.service.ListProducts(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/low-stock?threshold=&page=&page_size=
func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.ListLowStock(c.UserContext(),
		c.QueryInt("threshold", 0), c.QueryInt("page", 1), c.QueryInt("page_size", 20))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// POST /api/v1/products/:id/stock/add
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	return h.changeStock(c, h.service.AddStock)
}

// POST /api/v1/products/:id/stock/remove
func (h *ProductHandler) RemoveStock(c *fiber.Ctx) error {
	return h.changeStock(c, h.service.RemoveStock)
}

type stockChangeFunc func(ctx context.Context, actor service.Actor, id uuid.UUID, req service.StockChangeRequest) (*service.StockChangeResponse, error)

func (h *ProductHandler) changeStock(c *fiber.Ctx, change stockChangeFunc) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.StockChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	resp, err := change(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "data": resp})
}

// GET /api/v1/products/:id/stock-history?limit=
func (h *ProductHandler) GetStockHistory(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	history, err := h.service.GetStockHistory(c.UserContext(), id, c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": history})
}

// POST /api/v1/products/:id/deactivate
func (h *ProductHandler) DeactivateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	product, err := h.service.DeactivateProduct(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated", "data": product})
}

// POST /api/v1/products/:id/activate
func (h *ProductHandler) ActivateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, h.log, err)
	}
	product, err := h.service.ActivateProduct(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product activated", "data": product})
}

func optionalBool(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
