package repository

import (
	"context"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository is the read side of recorded sales.
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindByStore(ctx context.Context, storeID uint, limit int) ([]model.Transaction, error)
	CountDetails(ctx context.Context, transactionID uuid.UUID) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("variation_id ASC, created_at ASC")
		}).
		Preload("Details.Variation").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &transaction, nil
}

func (r *transactionRepo) FindByStore(ctx context.Context, storeID uint, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("store_id = ?", storeID).
		Order("sold_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) CountDetails(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TransactionDetail{}).
		Where("transaction_id = ?", transactionID).
		Count(&n).Error
	return n, err
}
