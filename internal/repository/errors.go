package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrVariationNotFound = errors.New("product variation not found")
	ErrInvalidReference  = errors.New("referenced record does not exist")
	ErrPersistence       = errors.New("persistence failure")
	ErrNotFound          = errors.New("record not found")
)

// persistenceErr classifies a raw gorm error. Foreign key violations become
// ErrInvalidReference, everything else ErrPersistence.
func persistenceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidReference, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrPersistence, err)
}

// notFound maps gorm.ErrRecordNotFound onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
