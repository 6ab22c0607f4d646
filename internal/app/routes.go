package app

import (
	"context"
	"time"

	"ia-papeleria/internal/handler"
	"ia-papeleria/internal/middleware"
	"ia-papeleria/internal/model"
	"ia-papeleria/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func (a *App) routes() *fiber.App {
	chatHandler := handler.NewChatHandler(a.Router, a.Transcript)
	invHandler := handler.NewInventoryHandler(a.Inventory, a.Sales)
	forecastHandler := handler.NewForecastHandler(a.Forecast)
	dashHandler := handler.NewDashboardHandler(a.Dashboard)
	providerHandler := handler.NewProviderHandler(a.Gateway)

	app := fiber.New(fiber.Config{
		AppName: a.cfg.Server.AppName,
	})

	app.Use(logger.FiberLogger())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", a.health)

	// Messaging platform entry point
	app.Post("/whatsapp/webhook", chatHandler.Webhook)

	api := app.Group("/api/v1")
	auth := middleware.RequireAuth(a.Tokens)

	api.Post("/chat/message", chatHandler.Message)
	api.Get("/chat/:sender/history", chatHandler.History)

	// Catalog reads; static segments before /:id
	api.Get("/products", invHandler.GetProducts)
	api.Get("/products/low-stock", forecastHandler.LowStock)
	api.Get("/products/low-rotation", forecastHandler.LowRotation)
	api.Get("/products/demand-alerts", forecastHandler.DemandAlerts)
	api.Get("/products/:id", invHandler.GetProduct)
	api.Get("/products/:id/demand-prediction", forecastHandler.PredictDemand)
	api.Get("/products/:id/reorder-suggestion", forecastHandler.ReorderSuggestion)

	// Catalog writes
	api.Post("/products", auth, middleware.RequirePrivilege(model.PrivProductCreate), invHandler.CreateProduct)
	api.Put("/products/:id", auth, middleware.RequirePrivilege(model.PrivProductUpdate), invHandler.UpdateProduct)
	api.Delete("/products/:id", auth, middleware.RequirePrivilege(model.PrivProductDelete), invHandler.DeleteProduct)
	api.Post("/products/:id/stock", auth, middleware.RequirePrivilege(model.PrivStockAdjust), invHandler.AdjustStock)

	// Sales and dashboard
	api.Get("/sales", auth, middleware.RequirePrivilege(model.PrivSaleView), invHandler.GetSales)
	api.Get("/sales/today", auth, middleware.RequirePrivilege(model.PrivSaleView), invHandler.GetTodaySummary)
	dash := api.Group("/dashboard", auth, middleware.RequirePrivilege(model.PrivDashboardView))
	dash.Get("/stats", dashHandler.GetDashboardStats)
	dash.Get("/sales-movement", dashHandler.GetSalesMovement)
	dash.Get("/top-sellers", dashHandler.GetTopSellers)

	api.Get("/ai/providers", providerHandler.GetProviders)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		a.Hub.Register <- c
		defer func() { a.Hub.Unregister <- c }()

		for {
			// keep alive until the client goes away
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}

func (a *App) health(c *fiber.Ctx) error {
	status, code := "ok", fiber.StatusOK
	dbState := "up"

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status, code, dbState = "degraded", fiber.StatusServiceUnavailable, "down"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":        status,
		"database":      dbState,
		"ai_configured": a.Gateway.Configured(),
		"ws_clients":    a.Hub.ClientCount(),
	})
}
