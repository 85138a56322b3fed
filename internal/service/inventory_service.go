package service

import (
	"context"
	"errors"
	"fmt"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/logger"
	"go-pos-ws/pkg/validator"

	"go.uber.org/zap"
)

var (
	ErrSKUExists       = errors.New("SKU already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrValidation      = errors.New("validation failed")
)

// CartItem is what a terminal submits: which variation and how many. The
// unit price is looked up from the catalog when the cart is priced.
type CartItem struct {
	VariationID uint `json:"variation_id"`
	Quantity    int  `json:"quantity"`
}

// CatalogReader prices variations for cart building.
type CatalogReader interface {
	GetVariationPrice(ctx context.Context, variationID uint) (int64, error)
	PriceCart(ctx context.Context, items []CartItem) ([]model.CartLine, error)
}

type InventoryService interface {
	CatalogReader
	CreateProduct(ctx context.Context, req *model.Product, actor string) error
	AddVariation(ctx context.Context, productID uint, req *model.ProductVariation, actor string) error
	Restock(ctx context.Context, variationID uint, quantity int, actor string) (int, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	uow         repository.UnitOfWork
	notifier    Notifier
	log         *zap.Logger
}

func NewInventoryService(pRepo repository.ProductRepository, uow repository.UnitOfWork, notifier Notifier, log *zap.Logger) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		uow:         uow,
		notifier:    notifierOrNop(notifier),
		log:         logger.OrNop(log).Named("inventory"),
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product, actor string) error {
	// 1. Validasi Struct Dasar
	if err := validator.First(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for i := range req.Variations {
		if err := validator.First(&req.Variations[i]); err != nil {
			return fmt.Errorf("%w: variation %d: %v", ErrValidation, i, err)
		}
	}

	// 2. Cek Duplikasi SKU
	existing, err := s.productRepo.FindBySKU(ctx, req.SKU)
	if err == nil && existing != nil {
		return ErrSKUExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if err := s.productRepo.Create(ctx, req); err != nil {
		return err
	}

	s.log.Info("product created", zap.Uint("product_id", req.ID), zap.String("sku", req.SKU), zap.String("actor", actor))
	s.notifier.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"id":         req.ID,
			"sku":        req.SKU,
			"name":       req.Name,
			"price":      req.Price,
			"variations": len(req.Variations),
		},
		"message": fmt.Sprintf("%s created product '%s'", actor, req.Name),
	})
	return nil
}

func (s *inventoryService) AddVariation(ctx context.Context, productID uint, req *model.ProductVariation, actor string) error {
	if err := validator.First(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	req.ProductID = productID
	if err := s.productRepo.CreateVariation(ctx, req); err != nil {
		return err
	}
	s.log.Info("variation created",
		zap.Uint("product_id", productID),
		zap.Uint("variation_id", req.ID),
		zap.Int("stocks", req.Stocks),
		zap.String("actor", actor))
	return nil
}

// Restock returns units to a variation through the stock ledger.
func (s *inventoryService) Restock(ctx context.Context, variationID uint, quantity int, actor string) (int, error) {
	var level int
	err := s.uow.Do(ctx, func(w repository.Writers) error {
		var err error
		level, err = w.Stock.Increment(ctx, variationID, quantity)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("variation restocked",
		zap.Uint("variation_id", variationID),
		zap.Int("quantity", quantity),
		zap.Int("new_stock", level),
		zap.String("actor", actor))
	s.notifier.Publish(map[string]interface{}{
		"type":         "stock_update",
		"action":       "restocked",
		"variation_id": variationID,
		"quantity":     quantity,
		"new_stock":    level,
		"message":      fmt.Sprintf("%s added %d units to variation %d", actor, quantity, variationID),
	})
	return level, nil
}

func (s *inventoryService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *inventoryService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *inventoryService) GetVariationPrice(ctx context.Context, variationID uint) (int64, error) {
	v, err := s.productRepo.FindVariation(ctx, variationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: variation %d", repository.ErrVariationNotFound, variationID)
		}
		return 0, err
	}
	return v.UnitPrice(), nil
}

// PriceCart snapshots the current catalog price of every item. Unknown
// variations are reported as a SaleError with kind ErrInvalidReference.
func (s *inventoryService) PriceCart(ctx context.Context, items []CartItem) ([]model.CartLine, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VariationID)
	}
	variations, err := s.productRepo.FindVariations(ctx, ids)
	if err != nil {
		return nil, &SaleError{Kind: ErrPersistence, Line: -1, Err: err}
	}
	prices := make(map[uint]int64, len(variations))
	for i := range variations {
		prices[variations[i].ID] = variations[i].UnitPrice()
	}

	lines := make([]model.CartLine, 0, len(items))
	for i, it := range items {
		price, ok := prices[it.VariationID]
		if !ok {
			return nil, &SaleError{Kind: ErrInvalidReference, VariationID: it.VariationID, Line: i}
		}
		lines = append(lines, model.CartLine{
			VariationID:  it.VariationID,
			Quantity:     it.Quantity,
			PricePerUnit: price,
		})
	}
	return lines, nil
}
