//go:build integration

package service

import (
	"context"
	"sync"
	"testing"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/testutil"
	"go-stock-pos/pkg/config"
	"go-stock-pos/pkg/database"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	pg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Port(54329).
		Database("stock_pos_test"))
	require.NoError(t, pg.Start())
	t.Cleanup(func() { _ = pg.Stop() })

	db, err := database.Open(config.DatabaseConfig{
		Driver:          "postgres",
		Host:            "localhost",
		Port:            "54329",
		User:            "postgres",
		Password:        "postgres",
		Name:            "stock_pos_test",
		SSLMode:         "disable",
		TimeZone:        "UTC",
		LogLevel:        "silent",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 60,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, db.AutoMigrate(model.Models()...))
	return db
}

func TestPostgresConcurrentSalesAndStockWrites(t *testing.T) {
	db := newPostgresDB(t)
	log := zap.NewNop()
	ctx := context.Background()

	productRepo := repository.NewProductRepo(db)
	ledger := NewStockLedger(db, productRepo, repository.NewStockMovementRepo(db), log)
	sales := NewSaleService(db, repository.NewSaleRepo(db), productRepo, repository.NewCustomerRepo(db), ledger, nil, log)

	user := testutil.CreateUser(t, db, "cashier")
	cashier := Actor{ID: user.ID, Name: user.FullName, Email: user.Email}
	soap := testutil.CreateProduct(t, db, "Soap", 1000, "5.00")
	milk := testutil.CreateProduct(t, db, "Milk", 1000, "3.00")

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sales.CreateSale(ctx, saleOf(line(soap, 3, "5.00"), line(milk, 1, "3.00")), cashier)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1000-3*workers, testutil.StockOf(t, db, soap))
	assert.Equal(t, 1000-workers, testutil.StockOf(t, db, milk))

	movements, err := ledger.Movements(ctx, soap.ID, 500)
	require.NoError(t, err)
	assert.Len(t, movements, workers)
}
