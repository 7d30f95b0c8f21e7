package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesSummary aggregates sales whose created_at falls within a period.
type SalesSummary struct {
	SaleCount     int64           `json:"sale_count"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	ItemsSold     int64           `json:"items_sold"`
}

type ProductSales struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type DailySales struct {
	Day       string          `json:"day"`
	SaleCount int64           `json:"sale_count"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

type InventoryValuation struct {
	ProductCount  int64           `json:"product_count"`
	LowStockCount int64           `json:"low_stock_count"`
	CostValue     decimal.Decimal `json:"cost_value"`
	RetailValue   decimal.Decimal `json:"retail_value"`
}

// ReportRepository runs read-only aggregate queries. Nothing here takes locks.
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit uint64) ([]ProductSales, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	InventoryValuation(ctx context.Context) (*InventoryValuation, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) raw(ctx context.Context, b sq.Sqlizer, dest interface{}) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

func inPeriod(column string, from, to time.Time) sq.And {
	return sq.And{sq.GtOrEq{column: from}, sq.Lt{column: to}}
}

func (r *reportRepo) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	totals := sq.Select(
		"COUNT(*) AS sale_count",
		"COALESCE(SUM(total_amount), 0) AS gross_amount",
		"COALESCE(SUM(discount), 0) AS discount_total",
		"COALESCE(SUM(tax), 0) AS tax_total",
		"COALESCE(SUM(final_amount), 0) AS net_amount",
	).From("sales").Where(inPeriod("created_at", from, to))
	if err := r.raw(ctx, totals, &summary); err != nil {
		return nil, err
	}

	var itemsSold int64
	sold := sq.Select("COALESCE(SUM(sale_items.quantity), 0) AS items_sold").
		From("sale_items").
		Join("sales ON sales.id = sale_items.sale_id").
		Where(inPeriod("sales.created_at", from, to))
	if err := r.raw(ctx, sold, &itemsSold); err != nil {
		return nil, err
	}
	summary.ItemsSold = itemsSold

	return &summary, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, from, to time.Time, limit uint64) ([]ProductSales, error) {
	var rows []ProductSales
	q := sq.Select(
		"products.id AS product_id",
		"products.name AS product_name",
		"SUM(sale_items.quantity) AS quantity",
		"SUM(sale_items.total_price) AS revenue",
	).
		From("sale_items").
		Join("sales ON sales.id = sale_items.sale_id").
		Join("products ON products.id = sale_items.product_id").
		Where(inPeriod("sales.created_at", from, to)).
		GroupBy("products.id", "products.name").
		OrderBy("quantity DESC", "products.name ASC").
		Limit(limit)
	if err := r.raw(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepo) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	var rows []DailySales
	day := dayExpr(r.db.Dialector.Name(), "created_at")
	q := sq.Select(
		day+" AS day",
		"COUNT(*) AS sale_count",
		"COALESCE(SUM(final_amount), 0) AS net_amount",
	).
		From("sales").
		Where(inPeriod("created_at", from, to)).
		GroupBy(day).
		OrderBy("day ASC")
	if err := r.raw(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepo) InventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	var v InventoryValuation
	q := sq.Select(
		"COUNT(*) AS product_count",
		"COALESCE(SUM(CASE WHEN stock_quantity <= min_stock_level THEN 1 ELSE 0 END), 0) AS low_stock_count",
		"COALESCE(SUM(stock_quantity * cost), 0) AS cost_value",
		"COALESCE(SUM(stock_quantity * price), 0) AS retail_value",
	).From("products")
	if err := r.raw(ctx, q, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// dayExpr renders a timestamp column as a YYYY-MM-DD string in the given SQL dialect.
func dayExpr(dialect, column string) string {
	switch dialect {
	case "postgres":
		return "TO_CHAR(" + column + ", 'YYYY-MM-DD')"
	case "mysql":
		return "DATE_FORMAT(" + column + ", '%Y-%m-%d')"
	default:
		return "strftime('%Y-%m-%d', " + column + ")"
	}
}
