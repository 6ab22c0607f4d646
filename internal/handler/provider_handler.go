package handler

import (
	"ia-papeleria/internal/ai"

	"github.com/gofiber/fiber/v2"
)

type ProviderHandler struct {
	gateway *ai.Gateway
}

func NewProviderHandler(g *ai.Gateway) *ProviderHandler {
	return &ProviderHandler{gateway: g}
}

// GetProviders reports which AI providers have credentials
// GET /api/v1/ai/providers
func (h *ProviderHandler) GetProviders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"configured": h.gateway.Configured(),
		"providers":  h.gateway.Available(),
	})
}
