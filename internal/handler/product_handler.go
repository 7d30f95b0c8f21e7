package handler

import (
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
	logger  *zap.Logger
}

func NewProductHandler(s service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: s, logger: log}
}

type SetStockRequest struct {
	StockQuantity *int `json:"stock_quantity"`
}

// GetProducts lists products. Filters: search, category_id, supplier_id, low_stock=true
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:   c.Query("search"),
		LowStock: c.QueryBool("low_stock"),
	}
	for param, dst := range map[string]**uuid.UUID{"category_id": &filter.CategoryID, "supplier_id": &filter.SupplierID} {
		if raw := c.Query(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "Invalid " + param})
			}
			*dst = &id
		}
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, "list products", err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return nil
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "get product", err)
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "create product", err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return nil
	}

	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update product", err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct fails with 400 while any sale item still references the product
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return nil
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, h.logger, "delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// SetStock overwrites the on-hand quantity
// PUT /api/v1/products/:id/stock
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return nil
	}

	var req SetStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.StockQuantity == nil {
		return c.Status(400).JSON(fiber.Map{"error": "stock_quantity is required"})
	}

	product, err := h.service.SetStock(c.UserContext(), id, *req.StockQuantity, actor(c))
	if err != nil {
		return respondError(c, h.logger, "set stock", err)
	}
	return c.JSON(product)
}

// GET /api/v1/products/:id/movements?limit=n
func (h *ProductHandler) GetMovements(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "product")
	if !ok {
		return nil
	}
	movements, err := h.service.Movements(c.UserContext(), id, c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, h.logger, "list stock movements", err)
	}
	return c.JSON(movements)
}
