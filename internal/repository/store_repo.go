package repository

import (
	"context"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type StoreRepository interface {
	FindAll(ctx context.Context) ([]model.Store, error)
	FindByID(ctx context.Context, id uint) (*model.Store, error)
	FindByCode(ctx context.Context, code string) (*model.Store, error)
	Create(ctx context.Context, store *model.Store) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) FindAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("id ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *storeRepo) FindByCode(ctx context.Context, code string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&store).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}
