package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SKU       string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit      string         `gorm:"type:varchar(20)" json:"unit"`
	Price     int64          `gorm:"not null;default:0" json:"price" validate:"gte=0"` // base price, smallest currency unit
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relasi
	Variations []ProductVariation `gorm:"foreignKey:ProductID" json:"variations,omitempty" validate:"-"`
}

// ProductVariation is the stock-bearing unit of the catalog, e.g. Size/Large.
// Stocks is only ever changed through the stock ledger.
type ProductVariation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	Product         *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Type            string         `gorm:"type:varchar(50);not null" json:"type" validate:"required"`
	Value           string         `gorm:"type:varchar(100);not null" json:"value" validate:"required"`
	Stocks          int            `gorm:"not null;default:0;check:chk_variation_stocks,stocks >= 0" json:"stocks" validate:"gte=0"`
	AdditionalPrice int64          `gorm:"not null;default:0" json:"additional_price" validate:"gte=0"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// UnitPrice returns the selling price of one unit. Product must be loaded.
func (v *ProductVariation) UnitPrice() int64 {
	if v.Product == nil {
		return v.AdditionalPrice
	}
	return v.Product.Price + v.AdditionalPrice
}
