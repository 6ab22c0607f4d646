package handler

import (
	"ia-papeleria/internal/model"
	"ia-papeleria/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultRotationDays = 60

type ForecastHandler struct {
	service service.ForecastService
}

func NewForecastHandler(s service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: s}
}

// PredictDemand forecasts units sold over the horizon.
// GET /api/v1/products/:id/demand-prediction?days_ahead=30
func (h *ForecastHandler) PredictDemand(c *fiber.Ctx) error {
	productID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	res, err := h.service.PredictDemand(c.UserContext(), productID, queryInt(c, "days_ahead", model.DefaultForecastDays))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (h *ForecastHandler) DemandAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.DemandAlerts(c.UserContext(), queryInt(c, "days_ahead", model.DefaultForecastDays))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"alerts": alerts, "count": len(alerts)})
}

func (h *ForecastHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.service.LowStock(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// LowRotation lists products without sales in the window.
// Query params: days (default 60)
func (h *ForecastHandler) LowRotation(c *fiber.Ctx) error {
	days := queryInt(c, "days", defaultRotationDays)
	products, err := h.service.LowRotation(c.UserContext(), days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"period": days, "data": products})
}

func (h *ForecastHandler) ReorderSuggestion(c *fiber.Ctx) error {
	productID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	s, err := h.service.ReorderSuggestion(c.UserContext(), productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(s)
}
