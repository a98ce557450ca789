package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/authz"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	profiles *services.ProfileService
	gate     *authz.Gate
}

func NewAdminHandler(profiles *services.ProfileService, gate *authz.Gate) *AdminHandler {
	return &AdminHandler{profiles: profiles, gate: gate}
}

// Access reports whether the caller may open the admin panel. Any
// authenticated user may ask.
func (h *AdminHandler) Access(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(dto.AdminAccessResponse{SuperAdmin: h.gate.IsSuperAdmin(c.UserContext(), sess)})
}

func (h *AdminHandler) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.profiles.List(c.UserContext())
	if err != nil {
		return profileError(c, err)
	}
	return c.JSON(profiles)
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid profile ID",
		})
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.profiles.SetRole(c.UserContext(), id, req.Role)
	if err != nil {
		return profileError(c, err)
	}

	if sess, err := session.From(c); err == nil {
		slog.Info("role changed", "user_id", sess.UserID.String(), "profile_id", id.String(), "role", profile.Role)
	}
	return c.JSON(profile)
}
