package repository

import (
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/testutil"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB { return testutil.NewDB(t) }

func newTestNode(t *testing.T) *snowflake.Node { return testutil.NewNode(t) }

func seedVariation(t *testing.T, db *gorm.DB, id uint, stocks int, price int64) *model.ProductVariation {
	return testutil.SeedVariation(t, db, id, stocks, price)
}

func seedStore(t *testing.T, db *gorm.DB, id uint) *model.Store {
	return testutil.SeedStore(t, db, id)
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int { return testutil.Stock(t, db, id) }
