package repository

import (
	"context"

	"go-stock-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByName(ctx context.Context, name string) (*model.Supplier, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var items []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Supplier{}, id)
}
