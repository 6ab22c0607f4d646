package handler

import (
	"ia-papeleria/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSalesMovement returns daily sales for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetSalesMovement(c *fiber.Ctx) error {
	days := queryInt(c, "days", 7)

	data, err := h.service.GetSalesMovement(c.UserContext(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch sales movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
// Query params: days (default 30)
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext(), queryInt(c, "days", 30))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetTopSellers ranks products by units sold
// Query params: days (default 30), limit (default 5)
func (h *DashboardHandler) GetTopSellers(c *fiber.Ctx) error {
	days := queryInt(c, "days", 30)
	top, err := h.service.GetTopSellers(c.UserContext(), days, queryInt(c, "limit", 5))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch top sellers"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   top,
	})
}
