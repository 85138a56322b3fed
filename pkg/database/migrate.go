package database

import (
	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables the sale core writes to.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Store{},
		&model.Product{},
		&model.ProductVariation{},
		&model.Transaction{},
		&model.TransactionDetail{},
	)
}
