// Package testutil provides an in-process SQLite database with the full schema for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go-stock-pos/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh file-backed SQLite database with foreign keys enforced.
// A single connection serializes transactions the way one Postgres row lock would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "pos.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.Models()...))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{Email: name + "@example.com", FullName: name, IsActive: true}
	require.NoError(t, user.SetPassword("password"))
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

func CreateCustomer(t *testing.T, db *gorm.DB, name string) *model.Customer {
	t.Helper()
	customer := &model.Customer{Name: name}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func CreateProduct(t *testing.T, db *gorm.DB, name string, stock int, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Cost:          decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		StockQuantity: stock,
		MinStockLevel: 2,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// StockOf reads the current stock_quantity straight from the table.
func StockOf(t *testing.T, db *gorm.DB, product *model.Product) int {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, "id = ?", product.ID).Error)
	return p.StockQuantity
}
