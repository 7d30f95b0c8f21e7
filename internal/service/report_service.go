package service

import (
	"context"
	"time"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"

	"go.uber.org/zap"
)

// Period is a half-open reporting window [From, To).
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (p Period) check() error {
	if !p.To.After(p.From) {
		return validationError("endDate must not be before startDate")
	}
	return nil
}

type SummaryReport struct {
	Period    Period                         `json:"period"`
	Sales     *repository.SalesSummary       `json:"sales"`
	Inventory *repository.InventoryValuation `json:"inventory"`
}

type ReportService interface {
	Summary(ctx context.Context, p Period) (*SummaryReport, error)
	TopProducts(ctx context.Context, p Period, limit int) ([]repository.ProductSales, error)
	DailySales(ctx context.Context, p Period) ([]repository.DailySales, error)
	LowStock(ctx context.Context) ([]model.Product, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

func NewReportService(reportRepo repository.ReportRepository, productRepo repository.ProductRepository, log *zap.Logger) ReportService {
	return &reportService{reportRepo: reportRepo, productRepo: productRepo, logger: log}
}

func (s *reportService) Summary(ctx context.Context, p Period) (*SummaryReport, error) {
	if err := p.check(); err != nil {
		return nil, err
	}

	sales, err := s.reportRepo.SalesSummary(ctx, p.From, p.To)
	if err != nil {
		s.logger.Error("sales summary query failed", zap.Time("from", p.From), zap.Time("to", p.To), zap.Error(err))
		return nil, err
	}
	inventory, err := s.reportRepo.InventoryValuation(ctx)
	if err != nil {
		s.logger.Error("inventory valuation query failed", zap.Error(err))
		return nil, err
	}

	return &SummaryReport{Period: p, Sales: sales, Inventory: inventory}, nil
}

func (s *reportService) TopProducts(ctx context.Context, p Period, limit int) ([]repository.ProductSales, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.reportRepo.TopProducts(ctx, p.From, p.To, uint64(limit))
	if err != nil {
		s.logger.Error("top products query failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (s *reportService) DailySales(ctx context.Context, p Period) ([]repository.DailySales, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.DailySales(ctx, p.From, p.To)
	if err != nil {
		s.logger.Error("daily sales query failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (s *reportService) LowStock(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, repository.ProductFilter{LowStock: true})
}
