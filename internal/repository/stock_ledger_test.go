package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLedger_ReserveAndDecrement(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger(db)
	ctx := context.Background()
	seedVariation(t, db, 3, 10, 15000)

	t.Run("Decrements", func(t *testing.T) {
		level, err := ledger.ReserveAndDecrement(ctx, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, 8, level)
		assert.Equal(t, 8, stockOf(t, db, 3))
	})

	t.Run("ExactLevelReachesZero", func(t *testing.T) {
		seedVariation(t, db, 4, 3, 1000)
		level, err := ledger.ReserveAndDecrement(ctx, 4, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, level)
	})

	t.Run("InsufficientStockLeavesLevel", func(t *testing.T) {
		level, err := ledger.ReserveAndDecrement(ctx, 3, 9)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 8, level)
		assert.Equal(t, 8, stockOf(t, db, 3))
	})

	t.Run("UnknownVariation", func(t *testing.T) {
		_, err := ledger.ReserveAndDecrement(ctx, 99, 1)
		assert.ErrorIs(t, err, ErrVariationNotFound)
	})

	t.Run("RejectsNonPositiveQuantity", func(t *testing.T) {
		_, err := ledger.ReserveAndDecrement(ctx, 3, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = ledger.ReserveAndDecrement(ctx, 3, -4)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, 8, stockOf(t, db, 3))
	})
}

func TestStockLedger_Increment(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger(db)
	ctx := context.Background()
	seedVariation(t, db, 1, 0, 5000)

	level, err := ledger.Increment(ctx, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, level)

	_, err = ledger.Increment(ctx, 42, 1)
	assert.ErrorIs(t, err, ErrVariationNotFound)

	_, err = ledger.Increment(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestStockLedger_ConcurrentDecrementsNeverGoNegative(t *testing.T) {
	db := newTestDB(t)
	ledger := NewStockLedger(db)
	seedVariation(t, db, 5, 5, 2000)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		refused   atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.ReserveAndDecrement(context.Background(), 5, 1)
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, ErrInsufficientStock):
				refused.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 5, succeeded.Load())
	assert.EqualValues(t, 7, refused.Load())
	assert.Equal(t, 0, stockOf(t, db, 5))
}
