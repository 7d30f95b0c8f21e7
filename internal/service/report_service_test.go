package service

import (
	"context"
	"testing"
	"time"

	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportsReflectRecordedSales(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	reports := NewReportService(repository.NewReportRepo(f.db), repository.NewProductRepo(f.db), zap.NewNop())

	soap := testutil.CreateProduct(t, f.db, "Soap", 10, "5.00")
	milk := testutil.CreateProduct(t, f.db, "Milk", 3, "2.00")
	_, err := f.sales.CreateSale(ctx, saleOf(line(soap, 2, "5.00"), line(milk, 2, "2.00")), f.cashier)
	require.NoError(t, err)
	_, err = f.sales.CreateSale(ctx, saleOf(line(soap, 1, "5.00")), f.cashier)
	require.NoError(t, err)

	now := time.Now().UTC()
	period := Period{From: now.Add(-time.Hour), To: now.Add(time.Hour)}

	summary, err := reports.Summary(ctx, period)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Sales.SaleCount)
	assert.EqualValues(t, 5, summary.Sales.ItemsSold)
	assert.True(t, dec("19").Equal(summary.Sales.NetAmount), summary.Sales.NetAmount.String())
	assert.EqualValues(t, 2, summary.Inventory.ProductCount)

	top, err := reports.TopProducts(ctx, period, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Soap", top[0].ProductName)
	assert.EqualValues(t, 3, top[0].Quantity)

	daily, err := reports.DailySales(ctx, period)
	require.NoError(t, err)
	require.NotEmpty(t, daily)

	low, err := reports.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, milk.ID, low[0].ID)
}

func TestReportRejectsInvertedPeriod(t *testing.T) {
	db := testutil.NewDB(t)
	reports := NewReportService(repository.NewReportRepo(db), repository.NewProductRepo(db), zap.NewNop())
	now := time.Now()

	_, err := reports.Summary(context.Background(), Period{From: now, To: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = reports.DailySales(context.Background(), Period{From: now, To: now})
	assert.ErrorIs(t, err, ErrValidation)
}
