package handler

import (
	"errors"

	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	sales   service.SaleService
	catalog service.CatalogReader
}

func NewSaleHandler(sales service.SaleService, catalog service.CatalogReader) *SaleHandler {
	return &SaleHandler{sales: sales, catalog: catalog}
}

type createSaleRequest struct {
	Items []service.CartItem `json:"items"`
}

// CreateSale prices the submitted items and records the sale for the
// cashier and store of the caller's token.
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req createSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cashierID, storeID, ok := middleware.Identity(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Missing cashier identity"})
	}

	lines, err := h.catalog.PriceCart(c.UserContext(), req.Items)
	if err != nil {
		return saleErrorResponse(c, err)
	}

	txID, err := h.sales.ProcessSale(c.UserContext(), lines, cashierID, storeID)
	if err != nil {
		return saleErrorResponse(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Sale recorded",
		"data":    fiber.Map{"transaction_id": txID},
	})
}

// GET /api/v1/transactions/:id
func (h *SaleHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.sales.GetTransaction(c.UserContext(), txID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(tx)
}

// GET /api/v1/stores/:id/transactions?limit=50
func (h *SaleHandler) GetStoreTransactions(c *fiber.Ctx) error {
	storeID, err := c.ParamsInt("id")
	if err != nil || storeID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid store ID"})
	}

	transactions, err := h.sales.ListTransactions(c.UserContext(), uint(storeID), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}
