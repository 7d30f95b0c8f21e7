package service

import (
	"context"
	"testing"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newProductService(t *testing.T) (*gorm.DB, ProductService, StockLedger) {
	t.Helper()
	db := testutil.NewDB(t)
	productRepo := repository.NewProductRepo(db)
	ledger := NewStockLedger(db, productRepo, repository.NewStockMovementRepo(db), zap.NewNop())
	svc := NewProductService(db, productRepo, repository.NewCategoryRepo(db), repository.NewSupplierRepo(db), ledger, nil, zap.NewNop())
	return db, svc, ledger
}

var admin = Actor{ID: uuid.New(), Name: "Admin"}

func intPtr(n int) *int { return &n }

func TestCreateProductBooksOpeningStock(t *testing.T) {
	db, svc, ledger := newProductService(t)
	ctx := context.Background()
	category := &model.Category{Name: "Household"}
	require.NoError(t, db.Create(category).Error)

	product, err := svc.CreateProduct(ctx, &ProductInput{
		Name:          " Soap ",
		Price:         dec("5.00"),
		Cost:          dec("3.00"),
		StockQuantity: intPtr(12),
		CategoryID:    &category.ID,
		Barcode:       "8991234",
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, "Soap", product.Name)
	assert.Equal(t, 12, product.StockQuantity)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Household", product.Category.Name)

	movements, err := ledger.Movements(ctx, product.ID, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 12, movements[0].Change)
}

func TestCreateProductRejectsInvalidInput(t *testing.T) {
	_, svc, _ := newProductService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &ProductInput{Price: dec("1")}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, &ProductInput{Name: "Soap", Price: dec("-1")}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	missing := uuid.New()
	_, err = svc.CreateProduct(ctx, &ProductInput{Name: "Soap", SupplierID: &missing}, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBarcodeMustBeUnique(t *testing.T) {
	_, svc, _ := newProductService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, &ProductInput{Name: "Soap", Barcode: "123"}, admin)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &ProductInput{Name: "Other soap", Barcode: "123"}, admin)
	assert.ErrorIs(t, err, ErrConflict)

	// keeping its own barcode is fine
	_, err = svc.UpdateProduct(ctx, first.ID, &ProductInput{Name: "Soap bar", Barcode: "123"}, admin)
	assert.NoError(t, err)

	// products without a barcode never collide
	_, err = svc.CreateProduct(ctx, &ProductInput{Name: "Loose candy"}, admin)
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &ProductInput{Name: "Loose nuts"}, admin)
	assert.NoError(t, err)
}

func TestUpdateProductRoutesStockThroughLedger(t *testing.T) {
	db, svc, ledger := newProductService(t)
	ctx := context.Background()
	soap := testutil.CreateProduct(t, db, "Soap", 10, "5.00")

	updated, err := svc.UpdateProduct(ctx, soap.ID, &ProductInput{Name: "Soap", Price: dec("6.00")}, admin)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.StockQuantity)
	assert.True(t, dec("6.00").Equal(updated.Price))

	updated, err = svc.UpdateProduct(ctx, soap.ID, &ProductInput{Name: "Soap", Price: dec("6.00"), StockQuantity: intPtr(15)}, admin)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.StockQuantity)

	movements, err := ledger.Movements(ctx, soap.ID, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 5, movements[0].Change)

	_, err = svc.UpdateProduct(ctx, uuid.New(), &ProductInput{Name: "x"}, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProductBlockedBySaleItems(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	productRepo := repository.NewProductRepo(f.db)
	svc := NewProductService(f.db, productRepo, repository.NewCategoryRepo(f.db), repository.NewSupplierRepo(f.db), f.ledger, nil, zap.NewNop())

	sold := testutil.CreateProduct(t, f.db, "Soap", 10, "5.00")
	unsold := testutil.CreateProduct(t, f.db, "Milk", 10, "2.50")
	_, err := f.sales.CreateSale(ctx, saleOf(line(sold, 1, "5.00")), f.cashier)
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, sold.ID, admin)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.GetProduct(ctx, sold.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, unsold.ID, admin))
	_, err = svc.GetProduct(ctx, unsold.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, unsold.ID, admin), ErrNotFound)
}

func TestSetStockViaService(t *testing.T) {
	db, svc, _ := newProductService(t)
	ctx := context.Background()
	soap := testutil.CreateProduct(t, db, "Soap", 10, "5.00")

	product, err := svc.SetStock(ctx, soap.ID, 3, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, product.StockQuantity)
	assert.Equal(t, 3, testutil.StockOf(t, db, soap))

	_, err = svc.SetStock(ctx, uuid.New(), 3, admin)
	assert.ErrorIs(t, err, ErrNotFound)

	low, err := svc.ListProducts(ctx, repository.ProductFilter{LowStock: true})
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = svc.SetStock(ctx, soap.ID, 1, admin)
	require.NoError(t, err)
	low, err = svc.ListProducts(ctx, repository.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, soap.ID, low[0].ID)
}
