// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"ia-papeleria/internal/config"
	"ia-papeleria/internal/model"
	"ia-papeleria/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := database.Connect(config.DBConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedProduct inserts a product. Seeds are spaced a millisecond apart so
// catalog order follows insertion order.
func SeedProduct(t testing.TB, db *gorm.DB, name, category string, price int64, stock, minStock int) model.Product {
	t.Helper()
	p := model.Product{
		Name:        name,
		Category:    category,
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
		MinStock:    minStock,
		LastUpdated: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&p).Error)
	time.Sleep(time.Millisecond)
	return p
}

// SeedSale inserts a historical sale without touching stock.
func SeedSale(t testing.TB, db *gorm.DB, product model.Product, qty int, at time.Time) model.Sale {
	t.Helper()
	s := model.Sale{
		ProductID:  product.ID,
		Quantity:   qty,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(qty))),
		SaleDate:   at.UTC(),
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}
