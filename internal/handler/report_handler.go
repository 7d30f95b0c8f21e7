package handler

import (
	"time"

	"go-stock-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
	logger  *zap.Logger
	now     func() time.Time
}

func NewReportHandler(s service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, logger: log, now: time.Now}
}

// period reads startDate/endDate (inclusive days). Missing bounds default to the last 30 days.
func (h *ReportHandler) period(c *fiber.Ctx) (service.Period, error) {
	today := h.now().UTC().Format(dateLayout)
	end := c.Query("endDate", today)
	endDay, err := time.ParseInLocation(dateLayout, end, time.UTC)
	if err != nil {
		return service.Period{}, err
	}
	start := c.Query("startDate", endDay.AddDate(0, 0, -29).Format(dateLayout))

	from, to, err := dayRange(start, end)
	if err != nil {
		return service.Period{}, err
	}
	return service.Period{From: from, To: to}, nil
}

// GET /api/v1/reports/summary
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	p, err := h.period(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Dates must use the YYYY-MM-DD format"})
	}
	report, err := h.service.Summary(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.logger, "sales summary", err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/top-products?limit=n
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	p, err := h.period(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Dates must use the YYYY-MM-DD format"})
	}
	rows, err := h.service.TopProducts(c.UserContext(), p, c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, h.logger, "top products", err)
	}
	return c.JSON(rows)
}

// GET /api/v1/reports/daily-sales
func (h *ReportHandler) GetDailySales(c *fiber.Ctx) error {
	p, err := h.period(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Dates must use the YYYY-MM-DD format"})
	}
	rows, err := h.service.DailySales(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.logger, "daily sales", err)
	}
	return c.JSON(rows)
}

// GET /api/v1/reports/low-stock
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "low stock", err)
	}
	return c.JSON(products)
}
