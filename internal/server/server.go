package server

import (
	"go-pos-ws/internal/handler"
	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
)

type Deps struct {
	AppName   string
	Sales     service.SaleService
	Inventory service.InventoryService
	Stores    repository.StoreRepository
	Hub       *ws.Hub
	Gatherer  prometheus.Gatherer
	// AccessLog enables fiber's request logger
	AccessLog bool
}

// New builds the fiber app with every route wired.
func New(d Deps) *fiber.App {
	saleHandler := handler.NewSaleHandler(d.Sales, d.Inventory)
	invHandler := handler.NewInventoryHandler(d.Inventory)
	storeHandler := handler.NewStoreHandler(d.Stores)

	app := fiber.New(fiber.Config{
		AppName: d.AppName,
	})

	// Middleware
	app.Use(requestid.New())
	if d.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.Gatherer)))

	api := app.Group("/api/v1")

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	// Sales
	protected.Post("/sales", middleware.RequirePrivilege(model.PrivSaleCreate), saleHandler.CreateSale)
	protected.Get("/transactions/:id", middleware.RequirePrivilege(model.PrivTransactionView), saleHandler.GetTransaction)
	protected.Get("/stores/:id/transactions", middleware.RequirePrivilege(model.PrivTransactionView), saleHandler.GetStoreTransactions)

	// Catalog
	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetProducts)
	protected.Get("/products/:id", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), invHandler.CreateProduct)
	protected.Post("/products/:id/variations", middleware.RequirePrivilege(model.PrivProductCreate), invHandler.AddVariation)
	protected.Get("/variations/:id/price", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetVariationPrice)
	protected.Post("/variations/:id/restock", middleware.RequirePrivilege(model.PrivProductUpdate), invHandler.Restock)

	// Stores
	protected.Get("/stores", middleware.RequirePrivilege(model.PrivStoreView), storeHandler.GetStores)
	protected.Post("/stores", middleware.RequirePrivilege(model.PrivStoreCreate), storeHandler.CreateStore)

	// Roles & privileges known to token issuers
	protected.Get("/roles", func(c *fiber.Ctx) error {
		return c.JSON(model.DefaultRoles)
	})

	// WebSocket Route
	if d.Hub != nil {
		hub := d.Hub
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			hub.Register <- c
			defer func() { hub.Unregister <- c }()

			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}

	return app
}
