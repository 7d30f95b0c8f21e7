package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor is the authenticated user on whose behalf a mutation runs.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func (a Actor) String() string {
	return a.ID.String()
}

type SaleItemInput struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"required"`
	TotalPrice decimal.Decimal `json:"total_price" validate:"required"`
}

type CreateSaleRequest struct {
	CustomerID    *uuid.UUID      `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount" validate:"required"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	FinalAmount   decimal.Decimal `json:"final_amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"max=20"`
	Notes         string          `json:"notes"`
	Items         []SaleItemInput `json:"items" validate:"required,min=1"`
}

// UpdateSaleRequest is a partial update: nil fields keep their stored value.
type UpdateSaleRequest struct {
	CustomerID    *uuid.UUID       `json:"customer_id"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Discount      *decimal.Decimal `json:"discount"`
	Tax           *decimal.Decimal `json:"tax"`
	FinalAmount   *decimal.Decimal `json:"final_amount"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,max=20"`
	Notes         *string          `json:"notes"`
	Items         []SaleItemInput  `json:"items"`
}

type SaleService interface {
	CreateSale(ctx context.Context, req *CreateSaleRequest, actor Actor) (*model.SaleResponse, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req *UpdateSaleRequest, actor Actor) (*model.SaleResponse, error)
	DeleteSale(ctx context.Context, id uuid.UUID, actor Actor) error
	GetSaleByID(ctx context.Context, id uuid.UUID) (*model.SaleResponse, error)
	ListSales(ctx context.Context) ([]model.SaleResponse, error)
	ListSalesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SaleResponse, error)
	ListSalesByUser(ctx context.Context, userID uuid.UUID) ([]model.SaleResponse, error)
	ListSalesByDateRange(ctx context.Context, from, to time.Time) ([]model.SaleResponse, error)
}

type saleService struct {
	db           *gorm.DB
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	ledger       StockLedger
	wsHub        *ws.Hub
	logger       *zap.Logger
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	ledger StockLedger,
	hub *ws.Hub,
	log *zap.Logger,
) SaleService {
	return &saleService{
		db:           db,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		wsHub:        hub,
		logger:       log,
	}
}

func validateItems(items []SaleItemInput) error {
	for i := range items {
		if err := validate(&items[i]); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

func (s *saleService) checkCustomer(ctx context.Context, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	if _, err := s.customerRepo.FindByID(ctx, *customerID); err != nil {
		return translate(err, "customer")
	}
	return nil
}

func (s *saleService) CreateSale(ctx context.Context, req *CreateSaleRequest, actor Actor) (*model.SaleResponse, error) {
	// 1. Validate everything before touching the database
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	sale := &model.Sale{
		CustomerID:    req.CustomerID,
		UserID:        actor.ID,
		TotalAmount:   req.TotalAmount,
		Discount:      req.Discount,
		Tax:           req.Tax,
		FinalAmount:   req.FinalAmount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	sale.CreatedBy = actor.String()
	sale.UpdatedBy = actor.String()

	// 2. Sale row, items and stock decrements commit or roll back together
	var adjusted []*model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.saleRepo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		if err := sales.Create(ctx, sale); err != nil {
			return err
		}

		for i, in := range req.Items {
			product, err := ledger.Adjust(ctx, in.ProductID, -in.Quantity, model.MovementSale, &sale.ID, actor.String())
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			adjusted = append(adjusted, product)

			item := &model.SaleItem{
				SaleID:     sale.ID,
				LineNo:     i + 1,
				ProductID:  in.ProductID,
				Quantity:   in.Quantity,
				UnitPrice:  in.UnitPrice,
				TotalPrice: in.TotalPrice,
			}
			if err := sales.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("create sale failed", zap.String("actor", actor.String()), zap.Int("items", len(req.Items)), zap.Error(err))
		return nil, err
	}

	// 3. Reload with display names
	created, err := s.saleRepo.FindByID(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	response := created.ToResponse()

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("actor", actor.String()),
		zap.String("final_amount", sale.FinalAmount.String()),
		zap.Int("items", len(req.Items)),
	)
	s.announceSale(&response, adjusted, actor)

	return &response, nil
}

func (s *saleService) announceSale(sale *model.SaleResponse, adjusted []*model.Product, actor Actor) {
	s.wsHub.Publish(ws.Event{
		Type:    "sale_update",
		Action:  "sale_created",
		Data:    sale,
		User:    ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
		Message: fmt.Sprintf("%s recorded a sale of %s", actor.Name, sale.FinalAmount.StringFixed(2)),
	})

	for _, product := range adjusted {
		s.wsHub.Publish(ws.Event{
			Type:   "stock_update",
			Action: "stock_decremented",
			Data: map[string]interface{}{
				"id":             product.ID,
				"name":           product.Name,
				"stock_quantity": product.StockQuantity,
			},
			User: ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
		})
		if product.IsLowStock() {
			s.logger.Warn("product at or below minimum stock",
				zap.String("product_id", product.ID.String()),
				zap.Int("stock_quantity", product.StockQuantity),
				zap.Int("min_stock_level", product.MinStockLevel),
			)
		}
	}
}

func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, req *UpdateSaleRequest, actor Actor) (*model.SaleResponse, error) {
	// 1. Sale must exist
	existing, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "sale")
	}

	// 2. Validate
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	// 3. Merge: omitted fields keep their value, user_id is never changed
	if req.CustomerID != nil {
		existing.CustomerID = req.CustomerID
	}
	if req.TotalAmount != nil {
		existing.TotalAmount = *req.TotalAmount
	}
	if req.Discount != nil {
		existing.Discount = *req.Discount
	}
	if req.Tax != nil {
		existing.Tax = *req.Tax
	}
	if req.FinalAmount != nil {
		existing.FinalAmount = *req.FinalAmount
	}
	if req.PaymentMethod != nil {
		existing.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}
	existing.UpdatedBy = actor.String()

	// 4. Persist; a non-empty item list replaces the old one
	var replaced []model.SaleItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.saleRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)

		if err := sales.Update(ctx, existing); err != nil {
			return err
		}
		if len(req.Items) == 0 {
			return nil
		}

		previous, err := sales.FindItemsBySale(ctx, id)
		if err != nil {
			return err
		}
		replaced = previous
		if err := sales.DeleteItemsBySale(ctx, id); err != nil {
			return err
		}
		for i, in := range req.Items {
			if _, err := products.FindByID(ctx, in.ProductID); err != nil {
				return fmt.Errorf("items[%d]: %w", i, translate(err, "product"))
			}
			item := &model.SaleItem{
				SaleID:     id,
				LineNo:     i + 1,
				ProductID:  in.ProductID,
				Quantity:   in.Quantity,
				UnitPrice:  in.UnitPrice,
				TotalPrice: in.TotalPrice,
			}
			if err := sales.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update sale failed", zap.String("sale_id", id.String()), zap.Error(err))
		return nil, err
	}

	if len(req.Items) > 0 {
		// Replacing items leaves stock as it was after the original sale.
		s.logger.Warn("sale items replaced without stock adjustment",
			zap.String("sale_id", id.String()),
			zap.Int("previous_items", len(replaced)),
			zap.Int("items", len(req.Items)),
			zap.String("actor", actor.String()),
		)
	}

	updated, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := updated.ToResponse()

	s.wsHub.Publish(ws.Event{
		Type:   "sale_update",
		Action: "sale_updated",
		Data:   response,
		User:   ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
	})

	return &response, nil
}

func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID, actor Actor) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.saleRepo.WithTx(tx)
		if err := sales.DeleteItemsBySale(ctx, id); err != nil {
			return err
		}
		// No row means the sale never existed or a concurrent delete got there first.
		return translate(sales.Delete(ctx, id), "sale")
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		s.logger.Error("delete sale failed", zap.String("sale_id", id.String()), zap.Error(err))
		return err
	}

	// Stock is intentionally left as decremented by the sale.
	s.logger.Info("sale deleted", zap.String("sale_id", id.String()), zap.String("actor", actor.String()))
	s.wsHub.Publish(ws.Event{
		Type:   "sale_update",
		Action: "sale_deleted",
		Data:   map[string]interface{}{"id": id},
		User:   ws.EventUser{ID: actor.String(), Name: actor.Name, Email: actor.Email},
	})
	return nil
}

func (s *saleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*model.SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "sale")
	}
	response := sale.ToResponse()
	return &response, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]model.SaleResponse, error) {
	return s.list(ctx, repository.SaleFilter{})
}

func (s *saleService) ListSalesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SaleResponse, error) {
	return s.list(ctx, repository.SaleFilter{CustomerID: &customerID})
}

func (s *saleService) ListSalesByUser(ctx context.Context, userID uuid.UUID) ([]model.SaleResponse, error) {
	return s.list(ctx, repository.SaleFilter{UserID: &userID})
}

// ListSalesByDateRange returns sales created in [from, to).
func (s *saleService) ListSalesByDateRange(ctx context.Context, from, to time.Time) ([]model.SaleResponse, error) {
	if to.Before(from) {
		return nil, validationError("endDate cannot be before startDate")
	}
	return s.list(ctx, repository.SaleFilter{From: &from, To: &to})
}

func (s *saleService) list(ctx context.Context, f repository.SaleFilter) ([]model.SaleResponse, error) {
	sales, err := s.saleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	responses := make([]model.SaleResponse, len(sales))
	for i := range sales {
		responses[i] = sales[i].ToResponse()
	}
	return responses, nil
}
