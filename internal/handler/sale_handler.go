package handler

import (
	"time"

	"go-stock-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type SaleHandler struct {
	service service.SaleService
	logger  *zap.Logger
}

func NewSaleHandler(s service.SaleService, log *zap.Logger) *SaleHandler {
	return &SaleHandler{service: s, logger: log}
}

// GetSales lists all sales, newest first
// GET /api/v1/sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "list sales", err)
	}
	return c.JSON(sales)
}

// GetSale returns one sale with its items
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return nil
	}
	sale, err := h.service.GetSaleByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "get sale", err)
	}
	return c.JSON(sale)
}

// CreateSale records a sale and decrements stock for each item
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.CreateSale(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "create sale", err)
	}
	return c.Status(201).JSON(sale)
}

// UpdateSale applies a partial update
// PUT /api/v1/sales/:id
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return nil
	}

	var req service.UpdateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.UpdateSale(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update sale", err)
	}
	return c.JSON(sale)
}

// DeleteSale removes a sale and its items; stock is left as it is
// DELETE /api/v1/sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return nil
	}
	if err := h.service.DeleteSale(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, h.logger, "delete sale", err)
	}
	return c.JSON(fiber.Map{"message": "Sale deleted successfully"})
}

// GET /api/v1/sales/customer/:customerId
func (h *SaleHandler) GetSalesByCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "customerId", "customer")
	if !ok {
		return nil
	}
	sales, err := h.service.ListSalesByCustomer(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "list sales by customer", err)
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/user/:userId
func (h *SaleHandler) GetSalesByUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "userId", "user")
	if !ok {
		return nil
	}
	sales, err := h.service.ListSalesByUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "list sales by user", err)
	}
	return c.JSON(sales)
}

// GetSalesByDateRange lists sales between two calendar days, both inclusive
// GET /api/v1/sales/date-range?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *SaleHandler) GetSalesByDateRange(c *fiber.Ctx) error {
	if c.Query("startDate") == "" || c.Query("endDate") == "" {
		return c.Status(400).JSON(fiber.Map{"error": "startDate and endDate are required"})
	}
	from, to, err := dayRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Dates must use the YYYY-MM-DD format"})
	}

	sales, err := h.service.ListSalesByDateRange(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, h.logger, "list sales by date range", err)
	}
	return c.JSON(sales)
}

// dayRange turns two inclusive calendar days into the half-open UTC window [start, end+1d).
func dayRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.ParseInLocation(dateLayout, end, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.AddDate(0, 0, 1), nil
}
