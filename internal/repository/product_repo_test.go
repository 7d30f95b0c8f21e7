package repository

import (
	"context"
	"testing"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepoStockWrites(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	product := testutil.CreateProduct(t, db, "Soap", 10, "5.00")

	require.NoError(t, repo.IncrementStock(ctx, product.ID, -3, "u1"))
	assert.Equal(t, 7, testutil.StockOf(t, db, product))

	require.NoError(t, repo.UpdateStock(ctx, product.ID, -2, "u1"))
	assert.Equal(t, -2, testutil.StockOf(t, db, product))

	err := repo.IncrementStock(ctx, uuid.New(), 1, "u1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepoUpdateLeavesStockAlone(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	product := testutil.CreateProduct(t, db, "Soap", 10, "5.00")

	product.Name = "Lavender Soap"
	product.StockQuantity = 999
	require.NoError(t, repo.Update(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lavender Soap", found.Name)
	assert.Equal(t, 10, found.StockQuantity)
}

func TestProductRepoFindAllFilters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	testutil.CreateProduct(t, db, "Soap", 10, "5.00")
	testutil.CreateProduct(t, db, "Milk", 1, "2.00")

	low, err := repo.FindAll(ctx, ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Milk", low[0].Name)

	found, err := repo.FindAll(ctx, ProductFilter{Search: "SOA"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Soap", found[0].Name)
}

func TestProductRepoSaleItemReferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	user := testutil.CreateUser(t, db, "cashier")
	sold := testutil.CreateProduct(t, db, "Soap", 10, "5.00")
	unsold := testutil.CreateProduct(t, db, "Milk", 10, "2.00")

	sale := &model.Sale{UserID: user.ID, TotalAmount: decimal.NewFromInt(5), FinalAmount: decimal.NewFromInt(5)}
	require.NoError(t, NewSaleRepo(db).Create(ctx, sale))
	require.NoError(t, NewSaleRepo(db).CreateItem(ctx, &model.SaleItem{SaleID: sale.ID, ProductID: sold.ID, Quantity: 1, UnitPrice: sold.Price, TotalPrice: sold.Price}))

	count, err := repo.CountSaleItemReferences(ctx, sold.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.Error(t, repo.Delete(ctx, sold.ID), "foreign key keeps referenced products")
	assert.NoError(t, repo.Delete(ctx, unsold.ID))
	assert.ErrorIs(t, repo.Delete(ctx, unsold.ID), gorm.ErrRecordNotFound)
}

func TestProductRepoLockedReadInsideTransaction(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	product := testutil.CreateProduct(t, db, "Soap", 10, "5.00")

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := NewProductRepo(db).WithTx(tx).FindByIDForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, 10, locked.StockQuantity)
		return nil
	})
	require.NoError(t, err)
}
