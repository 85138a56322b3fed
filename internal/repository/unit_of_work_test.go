package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-pos-ws/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db, newTestNode(t))
	ctx := context.Background()

	seedStore(t, db, 1)
	seedVariation(t, db, 7, 10, 10000)

	t.Run("CommitsOnNil", func(t *testing.T) {
		err := uow.Do(ctx, func(w Writers) error {
			id, err := w.Orders.RecordHeader(ctx, 1, 2, time.Now(), 10000)
			if err != nil {
				return err
			}
			if _, err := w.Stock.ReserveAndDecrement(ctx, 7, 1); err != nil {
				return err
			}
			_, err = w.Orders.RecordDetail(ctx, id, 7, 1, 10000)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 9, stockOf(t, db, 7))
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		var before int64
		db.Model(&model.Transaction{}).Count(&before)

		boom := errors.New("boom")
		err := uow.Do(ctx, func(w Writers) error {
			if _, err := w.Orders.RecordHeader(ctx, 1, 2, time.Now(), 30000); err != nil {
				return err
			}
			if _, err := w.Stock.ReserveAndDecrement(ctx, 7, 3); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var after int64
		db.Model(&model.Transaction{}).Count(&after)
		assert.Equal(t, before, after)
		assert.Equal(t, 9, stockOf(t, db, 7))
	})

	t.Run("RollsBackOnPanic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = uow.Do(ctx, func(w Writers) error {
				if _, err := w.Stock.ReserveAndDecrement(ctx, 7, 4); err != nil {
					return err
				}
				panic("terminal crashed")
			})
		})
		assert.Equal(t, 9, stockOf(t, db, 7))
	})
}
