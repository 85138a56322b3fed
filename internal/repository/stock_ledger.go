package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

// StockLedger is the only writer of product_variations.stocks.
type StockLedger interface {
	// ReserveAndDecrement removes quantity units if, and only if, at least
	// that many are on hand, and returns the new level.
	ReserveAndDecrement(ctx context.Context, variationID uint, quantity int) (int, error)
	// Increment returns units to stock (rollback compensation or restock).
	Increment(ctx context.Context, variationID uint, quantity int) (int, error)
	// Level reads the durable stock count.
	Level(ctx context.Context, variationID uint) (int, error)
}

type stockLedger struct {
	db *gorm.DB
}

// NewStockLedger binds a ledger to db, which may be the pool or an open
// transaction.
func NewStockLedger(db *gorm.DB) StockLedger {
	return &stockLedger{db: db}
}

func (l *stockLedger) ReserveAndDecrement(ctx context.Context, variationID uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}

	// Check and decrement in one statement. Concurrent callers on the same
	// row are serialised by the row lock the UPDATE takes.
	res := l.db.WithContext(ctx).
		Model(&model.ProductVariation{}).
		Where("id = ? AND stocks >= ?", variationID, quantity).
		Updates(map[string]interface{}{
			"stocks":     gorm.Expr("stocks - ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, persistenceErr("decrement stock", res.Error)
	}

	if res.RowsAffected == 0 {
		level, err := l.Level(ctx, variationID)
		if err != nil {
			return 0, err
		}
		return level, fmt.Errorf("%w: variation %d has %d, requested %d",
			ErrInsufficientStock, variationID, level, quantity)
	}

	return l.Level(ctx, variationID)
}

func (l *stockLedger) Increment(ctx context.Context, variationID uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}

	res := l.db.WithContext(ctx).
		Model(&model.ProductVariation{}).
		Where("id = ?", variationID).
		Updates(map[string]interface{}{
			"stocks":     gorm.Expr("stocks + ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, persistenceErr("increment stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: %d", ErrVariationNotFound, variationID)
	}

	return l.Level(ctx, variationID)
}

func (l *stockLedger) Level(ctx context.Context, variationID uint) (int, error) {
	var v model.ProductVariation
	err := l.db.WithContext(ctx).Select("id", "stocks").First(&v, variationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %d", ErrVariationNotFound, variationID)
	}
	if err != nil {
		return 0, persistenceErr("read stock", err)
	}
	return v.Stocks, nil
}
