package repository

import (
	"context"
	"time"

	"go-stock-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleFilter narrows sale listings. Zero values mean "no restriction";
// the date range is half-open: From <= created_at < To.
type SaleFilter struct {
	CustomerID *uuid.UUID
	UserID     *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type SaleRepository interface {
	WithTx(tx *gorm.DB) SaleRepository
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindAll(ctx context.Context, f SaleFilter) ([]model.Sale, error)
	Update(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, f SaleFilter) (int64, error)

	CreateItem(ctx context.Context, item *model.SaleItem) error
	FindItemsBySale(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error)
	DeleteItemsBySale(ctx context.Context, saleID uuid.UUID) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) WithTx(tx *gorm.DB) SaleRepository {
	return &saleRepo{tx}
}

// Create inserts the sale row only; items are written one by one with CreateItem.
func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sale_items.line_no ASC") }).
		Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(ctx context.Context, f SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.filtered(ctx, f).
		Preload("User").
		Preload("Customer").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Count(ctx context.Context, f SaleFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, f).Model(&model.Sale{}).Count(&count).Error
	return count, err
}

func (r *saleRepo) filtered(ctx context.Context, f SaleFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}

// Update writes the sale's own columns; user_id and created_at are never touched.
func (r *saleRepo) Update(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).
		Model(sale).
		Omit(clause.Associations).
		Select("customer_id", "total_amount", "discount", "tax", "final_amount", "payment_method", "notes", "updated_by", "updated_at").
		Updates(sale).Error
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Sale{}, id)
}

func (r *saleRepo) CreateItem(ctx context.Context, item *model.SaleItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *saleRepo) FindItemsBySale(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Order("line_no ASC").
		Find(&items).Error
	return items, err
}

func (r *saleRepo) DeleteItemsBySale(ctx context.Context, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}
