package support

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/export"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SupportClientHandler struct {
	store *store.SupportClientStore
}

func NewSupportClientHandler(s *store.SupportClientStore) *SupportClientHandler {
	return &SupportClientHandler{store: s}
}

func (h *SupportClientHandler) List(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	clients, err := h.store.List(c.UserContext(), sess.UserID)
	if err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return c.JSON(clients)
}

func (h *SupportClientHandler) Create(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateSupportClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	client := req.SupportClient()
	if err := h.store.Create(c.UserContext(), sess.UserID, client); err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *SupportClientHandler) Get(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid support client ID")
	}

	client, err := h.store.Get(c.UserContext(), sess.UserID, id)
	if err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return c.JSON(client)
}

func (h *SupportClientHandler) Update(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid support client ID")
	}

	var req UpdateSupportClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	fields, err := req.Fields()
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	client, err := h.store.Update(c.UserContext(), sess.UserID, id, fields)
	if err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return c.JSON(client)
}

// UpdateStatus edits the support plan inline.
func (h *SupportClientHandler) UpdateStatus(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid support client ID")
	}

	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !models.OneOf(req.Status, models.SupportPlans) {
		return apps.Fail(c, fiber.StatusBadRequest, ErrInvalidPlan.Error())
	}

	client, err := h.store.UpdateStatus(c.UserContext(), sess.UserID, id, req.Status)
	if err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return c.JSON(client)
}

func (h *SupportClientHandler) Delete(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid support client ID")
	}

	if err := h.store.Delete(c.UserContext(), sess.UserID, id); err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SupportClientHandler) Export(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	clients, err := h.store.List(c.UserContext(), sess.UserID)
	if err != nil {
		return apps.StoreError(c, err, "support client")
	}
	return apps.SendCSV(c, export.SupportClients(clients))
}
