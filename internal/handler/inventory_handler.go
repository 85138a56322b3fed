package handler

import (
	"errors"

	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Helper untuk parse ID numerik dari path
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	err := h.service.CreateProduct(c.UserContext(), &product, middleware.ActorName(c))
	switch {
	case errors.Is(err, service.ErrSKUExists):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// POST /api/v1/products/:id/variations
func (h *InventoryHandler) AddVariation(c *fiber.Ctx) error {
	productID, ok := paramID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var variation model.ProductVariation
	if err := c.BodyParser(&variation); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	err := h.service.AddVariation(c.UserContext(), productID, &variation, middleware.ActorName(c))
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Variation created", "data": variation})
}

// POST /api/v1/variations/:id/restock
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	variationID, ok := paramID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variation ID"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	level, err := h.service.Restock(c.UserContext(), variationID, req.Quantity, middleware.ActorName(c))
	switch {
	case errors.Is(err, repository.ErrInvalidQuantity):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrVariationNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Variation not found"})
	case err != nil:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Stock updated", "data": fiber.Map{"variation_id": variationID, "stocks": level}})
}

// GET /api/v1/variations/:id/price
func (h *InventoryHandler) GetVariationPrice(c *fiber.Ctx) error {
	variationID, ok := paramID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variation ID"})
	}

	price, err := h.service.GetVariationPrice(c.UserContext(), variationID)
	if errors.Is(err, repository.ErrVariationNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Variation not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"variation_id": variationID, "price": price})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	productID, ok := paramID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(c.UserContext(), productID)
	if errors.Is(err, service.ErrProductNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(product)
}
