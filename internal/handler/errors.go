package handler

import (
	"errors"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

// saleErrorResponse writes err with a status matching its sale error kind.
func saleErrorResponse(c *fiber.Ctx, err error) error {
	var saleErr *service.SaleError
	if !errors.As(err, &saleErr) {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	status := 500
	code := "persistence_error"
	switch {
	case errors.Is(saleErr.Kind, service.ErrEmptyCart):
		status, code = 400, "empty_cart"
	case errors.Is(saleErr.Kind, service.ErrInvalidQuantity):
		status, code = 400, "invalid_quantity"
	case errors.Is(saleErr.Kind, service.ErrInvalidPrice):
		status, code = 400, "invalid_price"
	case errors.Is(saleErr.Kind, service.ErrOutOfStock):
		status, code = 409, "out_of_stock"
	case errors.Is(saleErr.Kind, service.ErrInvalidReference):
		status, code = 404, "invalid_reference"
	}

	body := fiber.Map{"error": saleErr.Error(), "code": code}
	if saleErr.VariationID != 0 {
		body["variation_id"] = saleErr.VariationID
	}
	if saleErr.Line >= 0 {
		body["line"] = saleErr.Line
	}
	if status == 500 {
		// infrastructure detail stays in the logs
		body["error"] = saleErr.Kind.Error()
	}
	return c.Status(status).JSON(body)
}
