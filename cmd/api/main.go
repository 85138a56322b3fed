package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-ws/internal/config"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/server"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"
	"go-pos-ws/pkg/logger"
	"go-pos-ws/pkg/metrics"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migrate database", zap.Error(err))
	}

	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		zlog.Fatal("init receipt generator", zap.Int64("node_id", cfg.NodeID), zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 4. Dependency Injection (Wiring Layers)
	uow := repository.NewUnitOfWork(db, node)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	storeRepo := repository.NewStoreRepo(db)

	saleService := service.NewSaleService(uow, txRepo, wsHub, metrics.NewSaleMetrics(reg), zlog)
	invService := service.NewInventoryService(productRepo, uow, wsHub, zlog)

	if cfg.SeedDemo {
		seedDemo(zlog, storeRepo, invService)
	}

	app := server.New(server.Deps{
		AppName:   cfg.AppName,
		Sales:     saleService,
		Inventory: invService,
		Stores:    storeRepo,
		Hub:       wsHub,
		Gatherer:  reg,
		AccessLog: cfg.AccessLog,
	})

	// 5. Graceful Shutdown
	go func() {
		zlog.Info("http server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Panic("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("server exited")
}

// seedDemo creates one store and a small catalog when the database is empty.
func seedDemo(zlog *zap.Logger, stores repository.StoreRepository, inv service.InventoryService) {
	ctx := context.Background()

	if _, err := stores.FindByCode(ctx, "ST-001"); errors.Is(err, repository.ErrNotFound) {
		store := &model.Store{Code: "ST-001", Name: "Toko Pusat", Address: "Jl. Merdeka No. 1"}
		if err := stores.Create(ctx, store); err != nil {
			zlog.Warn("seed store failed", zap.Error(err))
		} else {
			zlog.Info("seeded demo store", zap.Uint("store_id", store.ID))
		}
	}

	products := []*model.Product{
		{
			SKU: "KOPI-001", Name: "Kopi Susu", Unit: "cup", Price: 18000,
			Variations: []model.ProductVariation{
				{Type: "Size", Value: "Regular", Stocks: 50},
				{Type: "Size", Value: "Large", Stocks: 30, AdditionalPrice: 4000},
			},
		},
		{
			SKU: "ROTI-001", Name: "Roti Bakar", Unit: "pcs", Price: 15000,
			Variations: []model.ProductVariation{
				{Type: "Topping", Value: "Coklat", Stocks: 25},
				{Type: "Topping", Value: "Keju", Stocks: 25, AdditionalPrice: 2000},
			},
		},
	}
	for _, p := range products {
		err := inv.CreateProduct(ctx, p, "system")
		switch {
		case errors.Is(err, service.ErrSKUExists):
		case err != nil:
			zlog.Warn("seed product failed", zap.String("sku", p.SKU), zap.Error(err))
		default:
			zlog.Info("seeded demo product", zap.String("sku", p.SKU), zap.Int("variations", len(p.Variations)))
		}
	}
}
