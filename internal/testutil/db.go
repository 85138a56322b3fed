// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/database"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func NewNode(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// SeedVariation creates a product priced at price with one variation id
// holding stocks units and no additional price.
func SeedVariation(t testing.TB, db *gorm.DB, id uint, stocks int, price int64) *model.ProductVariation {
	t.Helper()
	product := &model.Product{SKU: fmt.Sprintf("SKU-%d", id), Name: fmt.Sprintf("Product %d", id), Price: price}
	require.NoError(t, db.Omit("Variations").Create(product).Error)
	v := &model.ProductVariation{ID: id, ProductID: product.ID, Type: "Size", Value: "Regular", Stocks: stocks}
	require.NoError(t, db.Omit("Product").Create(v).Error)
	v.Product = product
	return v
}

func SeedStore(t testing.TB, db *gorm.DB, id uint) *model.Store {
	t.Helper()
	s := &model.Store{ID: id, Code: fmt.Sprintf("ST-%d", id), Name: fmt.Sprintf("Outlet %d", id)}
	require.NoError(t, db.Create(s).Error)
	return s
}

// Stock reads the stocks column directly.
func Stock(t testing.TB, db *gorm.DB, id uint) int {
	t.Helper()
	var v model.ProductVariation
	require.NoError(t, db.Select("id", "stocks").First(&v, id).Error)
	return v.Stocks
}

// Count returns the number of live rows of m's table.
func Count(t testing.TB, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
