package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	Cost          decimal.Decimal `json:"cost" validate:"gte=0"`
	StockQuantity *int            `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level" validate:"gte=0"`
	Barcode       string          `json:"barcode" validate:"max=64"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductInput, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, f repository.ProductFilter) ([]model.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int, actor Actor) (*model.Product, error)
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error)
}

type productService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	ledger       StockLedger
	wsHub        *ws.Hub
	logger       *zap.Logger
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	ledger StockLedger,
	hub *ws.Hub,
	log *zap.Logger,
) ProductService {
	return &productService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		ledger:       ledger,
		wsHub:        hub,
		logger:       log,
	}
}

// checkReferences validates the input and the category, supplier and barcode it points at.
// self is the product being updated, uuid.Nil on create.
func (s *productService) checkReferences(ctx context.Context, req *ProductInput, self uuid.UUID) error {
	if err := validate(req); err != nil {
		return err
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return translate(err, "category")
		}
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			return translate(err, "supplier")
		}
	}

	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		return nil
	}
	existing, err := s.productRepo.FindByBarcode(ctx, barcode)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return conflict("barcode %q is already used by product '%s'", barcode, existing.Name)
	}
	return nil
}

func (req *ProductInput) apply(product *model.Product) {
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	product.Price = req.Price
	product.Cost = req.Cost
	product.MinStockLevel = req.MinStockLevel
	product.Barcode = nil
	if barcode := strings.TrimSpace(req.Barcode); barcode != "" {
		product.Barcode = &barcode
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductInput, actor Actor) (*model.Product, error) {
	// 1. Validate and check references
	if err := s.checkReferences(ctx, req, uuid.Nil); err != nil {
		return nil, err
	}

	product := &model.Product{}
	req.apply(product)
	product.CreatedBy = actor.String()
	product.UpdatedBy = actor.String()

	// 2. Insert, then book the opening stock through the ledger
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}
		if req.StockQuantity == nil || *req.StockQuantity == 0 {
			return nil
		}
		_, err := s.ledger.WithTx(tx).SetStock(ctx, product.ID, *req.StockQuantity, actor.String())
		return err
	})
	if err != nil {
		s.logger.Error("create product failed", zap.String("name", product.Name), zap.Error(err))
		return nil, err
	}

	created, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", created.ID.String()), zap.String("actor", actor.String()))
	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    created,
		User:    ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, created.Name),
	})
	return created, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput, actor Actor) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	if err := s.checkReferences(ctx, req, id); err != nil {
		return nil, err
	}

	oldStock := existing.StockQuantity
	req.apply(existing)
	existing.UpdatedBy = actor.String()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Update(ctx, existing); err != nil {
			return err
		}
		if req.StockQuantity == nil || *req.StockQuantity == oldStock {
			return nil
		}
		_, err := s.ledger.WithTx(tx).SetStock(ctx, id, *req.StockQuantity, actor.String())
		return err
	})
	if err != nil {
		s.logger.Error("update product failed", zap.String("product_id", id.String()), zap.Error(err))
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "product_updated",
		Data: map[string]interface{}{
			"id":        updated.ID,
			"name":      updated.Name,
			"old_stock": oldStock,
			"new_stock": updated.StockQuantity,
			"price":     updated.Price,
		},
		User:    ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name),
	})
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return translate(err, "product")
	}

	refs, err := s.productRepo.CountSaleItemReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return conflict("product '%s' is referenced by %d sale item(s) and cannot be deleted", product.Name, refs)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("product")
		}
		s.logger.Error("delete product failed", zap.String("product_id", id.String()), zap.Error(err))
		return err
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()), zap.String("actor", actor.String()))
	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "product_deleted",
		Data:   map[string]interface{}{"id": id, "name": product.Name},
		User:   ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
	})
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, f)
}

func (s *productService) SetStock(ctx context.Context, id uuid.UUID, quantity int, actor Actor) (*model.Product, error) {
	product, err := s.ledger.SetStock(ctx, id, quantity, actor.String())
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "stock_set",
		Data: map[string]interface{}{
			"id":             product.ID,
			"name":           product.Name,
			"stock_quantity": product.StockQuantity,
		},
		User:    ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
		Message: fmt.Sprintf("%s set stock of '%s' to %d", actor.Name, product.Name, product.StockQuantity),
	})
	return product, nil
}

func (s *productService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ledger.Movements(ctx, id, limit)
}
