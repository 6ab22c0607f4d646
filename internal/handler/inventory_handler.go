package handler

import (
	"ia-papeleria/internal/middleware"
	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
	sales   service.SalesService
}

func NewInventoryHandler(s service.InventoryService, sales service.SalesService) *InventoryHandler {
	return &InventoryHandler{service: s, sales: sales}
}

type stockRequest struct {
	Quantity  int                     `json:"quantity"`
	Operation service.StockAdjustment `json:"operation"`
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	product := model.Product{MinStock: model.DefaultMinStock}
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(c.UserContext(), &product, middleware.Operator(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), productID, &product, middleware.Operator(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DeleteProduct removes a product that was never sold; sold products answer 409.
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeleteProduct(c.UserContext(), productID, middleware.Operator(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdjustStock adds or subtracts units outside of a sale.
// POST /api/v1/products/:id/stock {"quantity": 5, "operation": "add"}
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	productID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.AdjustStock(c.UserContext(), productID, req.Quantity, req.Operation, middleware.Operator(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "data": product})
}

// GetProducts lists the catalog.
// Query params: low_stock, in_stock, category, limit
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		LowStock: c.QueryBool("low_stock"),
		InStock:  c.QueryBool("in_stock"),
		Category: c.Query("category"),
		Limit:    queryInt(c, "limit", 0),
	}
	products, err := h.service.GetAllProducts(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.service.GetProduct(c.UserContext(), productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// GetSales lists recorded sales, newest first.
// Query params: product_id, since, limit (default 100)
func (h *InventoryHandler) GetSales(c *fiber.Ctx) error {
	filter := repository.SaleFilter{Newest: true, Limit: queryInt(c, "limit", 100)}

	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		filter.ProductID = &id
	}
	since, err := querySince(c, "since")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid since date"})
	}
	filter.Since = since

	sales, err := h.sales.ListSales(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}

// GetTodaySummary reports today's sale count and totals.
// GET /api/v1/sales/today
func (h *InventoryHandler) GetTodaySummary(c *fiber.Ctx) error {
	sum, err := h.sales.TodaySummary(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sum)
}
