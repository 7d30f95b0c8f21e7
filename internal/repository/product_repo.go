package repository

import (
	"context"
	"strings"

	"go-stock-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
	LowStock   bool
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int, updatedBy string) error
	IncrementStock(ctx context.Context, id uuid.UUID, delta int, updatedBy string) error
	CountSaleItemReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Category").Preload("Supplier")

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR barcode = ?", like, s)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.SupplierID != nil {
		q = q.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.LowStock {
		q = q.Where("stock_quantity <= min_stock_level")
	}

	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row until the surrounding transaction ends.
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves catalogue fields. stock_quantity is owned by the stock ledger and is never written here.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).
		Model(product).
		Select("name", "description", "category_id", "price", "cost", "min_stock_level", "barcode", "supplier_id", "updated_by", "updated_at").
		Updates(product).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Product{}, id)
}

// UpdateStock overwrites the on-hand quantity with an absolute value.
func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, newStock int, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": newStock,
			"updated_by":     updatedBy,
			"updated_at":     r.db.NowFunc(),
		}).Error
}

// IncrementStock applies a signed delta in a single statement, so concurrent callers never lose an update.
func (r *productRepo) IncrementStock(ctx context.Context, id uuid.UUID, delta int, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"updated_by":     updatedBy,
			"updated_at":     r.db.NowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountSaleItemReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}
