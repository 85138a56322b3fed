package middleware

import (
	"strings"

	"go-pos-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth.
const (
	LocalCashierID  = "cashier_id"
	LocalStoreID    = "store_id"
	LocalName       = "cashier_name"
	LocalPrivileges = "privileges"
)

// RequireAuth validates the bearer token and exposes the cashier and store
// it was issued for. Handlers trust these values as-is.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(LocalCashierID, claims.CashierID)
		c.Locals(LocalStoreID, claims.StoreID)
		c.Locals(LocalName, claims.Name)
		c.Locals(LocalPrivileges, claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated cashier has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// Identity returns the cashier and store placed in the context by RequireAuth.
func Identity(c *fiber.Ctx) (cashierID, storeID uint, ok bool) {
	cashierID, ok1 := c.Locals(LocalCashierID).(uint)
	storeID, ok2 := c.Locals(LocalStoreID).(uint)
	return cashierID, storeID, ok1 && ok2
}

// ActorName returns a display name for audit logs.
func ActorName(c *fiber.Ctx) string {
	if name, ok := c.Locals(LocalName).(string); ok && name != "" {
		return name
	}
	return "system"
}
