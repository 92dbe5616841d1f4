package handler

import (
	"strconv"

	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *logger.Logger
}

func NewDashboardHandler(s service.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(stats)
}
