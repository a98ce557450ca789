package leads

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/export"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LeadHandler struct {
	store  *store.LeadStore
	engine *lifecycle.Engine
}

func NewLeadHandler(s *store.LeadStore, engine *lifecycle.Engine) *LeadHandler {
	return &LeadHandler{store: s, engine: engine}
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	leads, err := h.store.List(c.UserContext(), sess.UserID)
	if err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return c.JSON(leads)
}

func (h *LeadHandler) Create(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	lead := req.Lead()
	if err := h.store.Create(c.UserContext(), sess.UserID, lead); err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func (h *LeadHandler) Get(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	lead, err := h.store.Get(c.UserContext(), sess.UserID, id)
	if err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return c.JSON(lead)
}

func (h *LeadHandler) Update(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	var req UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	fields, err := req.Fields()
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	lead, err := h.store.Update(c.UserContext(), sess.UserID, id, fields)
	if err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return c.JSON(lead)
}

func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !models.OneOf(req.Status, models.CallStatuses) {
		return apps.Fail(c, fiber.StatusBadRequest, ErrInvalidCallStatus.Error())
	}

	lead, err := h.store.UpdateStatus(c.UserContext(), sess.UserID, id, req.Status)
	if err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return c.JSON(lead)
}

func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	if err := h.store.Delete(c.UserContext(), sess.UserID, id); err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LeadHandler) Export(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	leads, err := h.store.List(c.UserContext(), sess.UserID)
	if err != nil {
		return apps.StoreError(c, err, "lead")
	}
	return apps.SendCSV(c, export.Leads(leads))
}

// Convert turns the lead into a planning-stage project and removes the lead.
func (h *LeadHandler) Convert(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	project, err := h.engine.ConvertLeadToProject(c.UserContext(), sess, id)
	if err != nil {
		return apps.TransitionFailure(c, sess, err, "lead")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}
