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

func newDirectory(t *testing.T) (*gorm.DB, DirectoryService) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, NewDirectoryService(repository.NewCategoryRepo(db), repository.NewSupplierRepo(db), repository.NewCustomerRepo(db), zap.NewNop())
}

func TestCategoryNamesAreUnique(t *testing.T) {
	_, dir := newDirectory(t)
	ctx := context.Background()

	drinks := &model.Category{Name: "Drinks"}
	require.NoError(t, dir.CreateCategory(ctx, drinks, admin))
	assert.Equal(t, admin.String(), drinks.CreatedBy)

	err := dir.CreateCategory(ctx, &model.Category{Name: " Drinks "}, admin)
	assert.ErrorIs(t, err, ErrConflict)

	snacks := &model.Category{Name: "Snacks"}
	require.NoError(t, dir.CreateCategory(ctx, snacks, admin))

	_, err = dir.UpdateCategory(ctx, snacks.ID, &model.Category{Name: "Drinks"}, admin)
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := dir.UpdateCategory(ctx, snacks.ID, &model.Category{Name: "Snacks", Description: "salty"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "salty", updated.Description)

	err = dir.CreateCategory(ctx, &model.Category{}, admin)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	db, dir := newDirectory(t)
	ctx := context.Background()

	drinks := &model.Category{Name: "Drinks"}
	require.NoError(t, dir.CreateCategory(ctx, drinks, admin))
	tea := testutil.CreateProduct(t, db, "Tea", 5, "1.00")
	require.NoError(t, db.Model(tea).Update("category_id", drinks.ID).Error)

	require.NoError(t, dir.DeleteCategory(ctx, drinks.ID))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", tea.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	assert.ErrorIs(t, dir.DeleteCategory(ctx, drinks.ID), ErrNotFound)
}

func TestSupplierValidation(t *testing.T) {
	_, dir := newDirectory(t)
	ctx := context.Background()

	err := dir.CreateSupplier(ctx, &model.Supplier{Name: "Acme", Email: "not-an-email"}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	acme := &model.Supplier{Name: "Acme", Email: "sales@acme.test"}
	require.NoError(t, dir.CreateSupplier(ctx, acme, admin))
	assert.ErrorIs(t, dir.CreateSupplier(ctx, &model.Supplier{Name: "Acme"}, admin), ErrConflict)

	_, err = dir.GetSupplier(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerSearchAndDelete(t *testing.T) {
	_, dir := newDirectory(t)
	ctx := context.Background()

	rina := &model.Customer{Name: "Rina Putri", Phone: "0812"}
	require.NoError(t, dir.CreateCustomer(ctx, rina, admin))
	require.NoError(t, dir.CreateCustomer(ctx, &model.Customer{Name: "Budi"}, admin))

	found, err := dir.ListCustomers(ctx, "putri")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, rina.ID, found[0].ID)

	found, err = dir.ListCustomers(ctx, "0812")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	all, err := dir.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := dir.UpdateCustomer(ctx, rina.ID, &model.Customer{Name: "Rina P."}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Rina P.", updated.Name)

	require.NoError(t, dir.DeleteCustomer(ctx, rina.ID))
	_, err = dir.GetCustomer(ctx, rina.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomerKeepsSales(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	dir := NewDirectoryService(repository.NewCategoryRepo(f.db), repository.NewSupplierRepo(f.db), repository.NewCustomerRepo(f.db), zap.NewNop())

	soap := testutil.CreateProduct(t, f.db, "Soap", 10, "5.00")
	customer := testutil.CreateCustomer(t, f.db, "Rina")
	req := saleOf(line(soap, 1, "5.00"))
	req.CustomerID = &customer.ID
	sale, err := f.sales.CreateSale(ctx, req, f.cashier)
	require.NoError(t, err)

	require.NoError(t, dir.DeleteCustomer(ctx, customer.ID))

	kept, err := f.sales.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.CustomerID)
	assert.Empty(t, kept.CustomerName)
}
