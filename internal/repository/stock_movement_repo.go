package repository

import (
	"context"

	"go-stock-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockMovementRepository interface {
	WithTx(tx *gorm.DB) StockMovementRepository
	Create(ctx context.Context, movement *model.StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error)
	FindByReference(ctx context.Context, referenceID uuid.UUID) ([]model.StockMovement, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) WithTx(tx *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{tx}
}

func (r *stockMovementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(movement).Error
}

func (r *stockMovementRepo) FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	q := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByReference(ctx context.Context, referenceID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Where("reference_id = ?", referenceID).Order("created_at ASC").Find(&movements).Error
	return movements, err
}
