package repository

import (
	"context"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

// ProductRepository is the catalog store. It never touches stocks after a
// variation has been created; that belongs to StockLedger.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	CreateVariation(ctx context.Context, variation *model.ProductVariation) error
	FindVariation(ctx context.Context, id uint) (*model.ProductVariation, error)
	FindVariations(ctx context.Context, ids []uint) ([]model.ProductVariation, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Variations").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Variations").First(&product, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) CreateVariation(ctx context.Context, variation *model.ProductVariation) error {
	return r.db.WithContext(ctx).Omit("Product").Create(variation).Error
}

func (r *productRepo) FindVariation(ctx context.Context, id uint) (*model.ProductVariation, error) {
	var variation model.ProductVariation
	err := r.db.WithContext(ctx).Preload("Product").First(&variation, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &variation, nil
}

func (r *productRepo) FindVariations(ctx context.Context, ids []uint) ([]model.ProductVariation, error) {
	var variations []model.ProductVariation
	if len(ids) == 0 {
		return variations, nil
	}
	err := r.db.WithContext(ctx).Preload("Product").Where("id IN ?", ids).Find(&variations).Error
	return variations, err
}
