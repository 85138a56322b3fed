package handler

import (
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type StoreHandler struct {
	storeRepo repository.StoreRepository
}

func NewStoreHandler(storeRepo repository.StoreRepository) *StoreHandler {
	return &StoreHandler{storeRepo: storeRepo}
}

// GetStores returns all stores
// GET /api/v1/stores
func (h *StoreHandler) GetStores(c *fiber.Ctx) error {
	stores, err := h.storeRepo.FindAll(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stores"})
	}
	return c.JSON(stores)
}

// CreateStore registers a new outlet
// POST /api/v1/stores
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var store model.Store
	if err := c.BodyParser(&store); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&store); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	if _, err := h.storeRepo.FindByCode(c.UserContext(), store.Code); err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "Store code already exists"})
	}
	if err := h.storeRepo.Create(c.UserContext(), &store); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create store"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Store created", "data": store})
}
