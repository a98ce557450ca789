package middleware

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/authz"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// SuperAdminRequired lets the request through only when the caller's profile
// holds the super_admin role. It must run after Authenticated.
func SuperAdminRequired(gate *authz.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := session.From(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !gate.IsSuperAdmin(c.UserContext(), sess) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Super admin access required",
			})
		}
		return c.Next()
	}
}
