package model

import (
	"time"

	"gorm.io/gorm"
)

// Store is a physical outlet where cashiers ring up sales.
type Store struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Address   string         `gorm:"type:text" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
