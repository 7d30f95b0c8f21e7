package service

import (
	"context"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockLedger is the only writer of Product.stock_quantity. Every change is recorded as a StockMovement.
type StockLedger interface {
	// SetStock overwrites the on-hand quantity with an absolute value (negative values are accepted).
	SetStock(ctx context.Context, productID uuid.UUID, newQuantity int, actorID string) (*model.Product, error)
	// Adjust applies a signed delta atomically and returns the product as it is afterwards.
	Adjust(ctx context.Context, productID uuid.UUID, delta int, reason model.MovementReason, referenceID *uuid.UUID, actorID string) (*model.Product, error)
	Movements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error)
	// WithTx binds the ledger to an open transaction owned by the caller.
	WithTx(tx *gorm.DB) StockLedger
}

type stockLedger struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	logger       *zap.Logger
	inTx         bool
}

func NewStockLedger(db *gorm.DB, pRepo repository.ProductRepository, mRepo repository.StockMovementRepository, log *zap.Logger) StockLedger {
	return &stockLedger{
		db:           db,
		productRepo:  pRepo,
		movementRepo: mRepo,
		logger:       log,
	}
}

func (l *stockLedger) WithTx(tx *gorm.DB) StockLedger {
	return &stockLedger{
		db:           tx,
		productRepo:  l.productRepo.WithTx(tx),
		movementRepo: l.movementRepo.WithTx(tx),
		logger:       l.logger,
		inTx:         true,
	}
}

// run executes fn in a transaction, reusing the bound one when there is one.
func (l *stockLedger) run(ctx context.Context, fn func(ledger *stockLedger) error) error {
	if l.inTx {
		return fn(l)
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(l.WithTx(tx).(*stockLedger))
	})
}

func (l *stockLedger) SetStock(ctx context.Context, productID uuid.UUID, newQuantity int, actorID string) (*model.Product, error) {
	var product *model.Product
	err := l.run(ctx, func(ledger *stockLedger) error {
		// 1. Lock the row so a concurrent writer waits for us
		current, err := ledger.productRepo.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return translate(err, "product")
		}

		// 2. Overwrite
		if err := ledger.productRepo.UpdateStock(ctx, productID, newQuantity, actorID); err != nil {
			return err
		}

		// 3. Audit
		if err := ledger.record(ctx, productID, newQuantity-current.StockQuantity, newQuantity, model.MovementManual, nil, actorID); err != nil {
			return err
		}

		product, err = ledger.productRepo.FindByID(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("stock set",
		zap.String("product_id", productID.String()),
		zap.Int("stock_quantity", product.StockQuantity),
		zap.String("actor", actorID),
	)
	return product, nil
}

func (l *stockLedger) Adjust(ctx context.Context, productID uuid.UUID, delta int, reason model.MovementReason, referenceID *uuid.UUID, actorID string) (*model.Product, error) {
	var product *model.Product
	err := l.run(ctx, func(ledger *stockLedger) error {
		if err := ledger.productRepo.IncrementStock(ctx, productID, delta, actorID); err != nil {
			return translate(err, "product")
		}

		var err error
		product, err = ledger.productRepo.FindByID(ctx, productID)
		if err != nil {
			return translate(err, "product")
		}

		return ledger.record(ctx, productID, delta, product.StockQuantity, reason, referenceID, actorID)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (l *stockLedger) record(ctx context.Context, productID uuid.UUID, change, after int, reason model.MovementReason, referenceID *uuid.UUID, actorID string) error {
	return l.movementRepo.Create(ctx, &model.StockMovement{
		ProductID:     productID,
		Change:        change,
		QuantityAfter: after,
		Reason:        reason,
		ReferenceID:   referenceID,
		CreatedBy:     actorID,
	})
}

func (l *stockLedger) Movements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if _, err := l.productRepo.FindByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}
	return l.movementRepo.FindByProduct(ctx, productID, limit)
}
