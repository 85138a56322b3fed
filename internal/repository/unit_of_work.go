package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Writers are the mutating repositories of one unit of work, all bound to
// the same database transaction.
type Writers struct {
	Stock  StockLedger
	Orders OrderRecorder
}

// UnitOfWork runs fn inside a single database transaction. A nil return
// commits; an error or a panic rolls back every write made through w.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(w Writers) error) error
}

type gormUnitOfWork struct {
	db       *gorm.DB
	receipts *snowflake.Node
}

func NewUnitOfWork(db *gorm.DB, receipts *snowflake.Node) UnitOfWork {
	return &gormUnitOfWork{db: db, receipts: receipts}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(w Writers) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Writers{
			Stock:  NewStockLedger(tx),
			Orders: NewOrderRecorder(tx, u.receipts),
		})
	})
}
