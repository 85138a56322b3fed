package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-pos-ws/internal/model"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRecorder writes a sale header and its line items. It never commits;
// the surrounding unit of work does.
type OrderRecorder interface {
	RecordHeader(ctx context.Context, storeID, cashierID uint, at time.Time, total int64) (uuid.UUID, error)
	RecordDetail(ctx context.Context, transactionID uuid.UUID, variationID uint, quantity int, pricePerUnit int64) (uuid.UUID, error)
}

type orderRecorder struct {
	db       *gorm.DB
	receipts *snowflake.Node
}

func NewOrderRecorder(db *gorm.DB, receipts *snowflake.Node) OrderRecorder {
	return &orderRecorder{db: db, receipts: receipts}
}

func (r *orderRecorder) RecordHeader(ctx context.Context, storeID, cashierID uint, at time.Time, total int64) (uuid.UUID, error) {
	db := r.db.WithContext(ctx)

	var n int64
	if err := db.Model(&model.Store{}).Where("id = ?", storeID).Count(&n).Error; err != nil {
		return uuid.Nil, persistenceErr("lookup store", err)
	}
	if n == 0 {
		return uuid.Nil, fmt.Errorf("%w: store %d", ErrInvalidReference, storeID)
	}

	header := &model.Transaction{
		ReceiptNo: r.receipts.Generate().String(),
		StoreID:   storeID,
		CashierID: cashierID,
		Timestamp: at,
		Total:     total,
	}
	header.CreatedBy = fmt.Sprint(cashierID)
	header.UpdatedBy = header.CreatedBy

	if err := db.Create(header).Error; err != nil {
		return uuid.Nil, persistenceErr("record header", err)
	}
	return header.ID, nil
}

func (r *orderRecorder) RecordDetail(ctx context.Context, transactionID uuid.UUID, variationID uint, quantity int, pricePerUnit int64) (uuid.UUID, error) {
	db := r.db.WithContext(ctx)

	var header model.Transaction
	if err := db.Select("id", "created_by").First(&header, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("%w: transaction %s", ErrInvalidReference, transactionID)
		}
		return uuid.Nil, persistenceErr("lookup transaction", err)
	}

	var n int64
	if err := db.Model(&model.ProductVariation{}).Where("id = ?", variationID).Count(&n).Error; err != nil {
		return uuid.Nil, persistenceErr("lookup variation", err)
	}
	if n == 0 {
		return uuid.Nil, fmt.Errorf("%w: variation %d", ErrInvalidReference, variationID)
	}

	detail := &model.TransactionDetail{
		TransactionID: transactionID,
		VariationID:   variationID,
		Quantity:      quantity,
		PricePerUnit:  pricePerUnit,
	}
	detail.CreatedBy = header.CreatedBy
	detail.UpdatedBy = header.CreatedBy

	if err := db.Create(detail).Error; err != nil {
		return uuid.Nil, persistenceErr("record detail", err)
	}
	return detail.ID, nil
}
