package projects

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

type ProjectHandler struct {
	store  *store.ProjectStore
	engine *lifecycle.Engine
}

func NewProjectHandler(s *store.ProjectStore, engine *lifecycle.Engine) *ProjectHandler {
	return &ProjectHandler{store: s, engine: engine}
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projects, err := h.store.List(c.UserContext(), sess.UserID)
	if err != nil {
		return apps.StoreError(c, err, "project")
	}
	return c.JSON(projects)
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	project := req.Project()
	if err := h.store.Create(c.UserContext(), sess.UserID, project); err != nil {
		return apps.StoreError(c, err, "project")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	project, err := h.store.Get(c.UserContext(), sess.UserID, id)
	if err != nil {
		return apps.StoreError(c, err, "project")
	}
	return c.JSON(project)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	fields, err := req.Fields()
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := h.store.Update(c.UserContext(), sess.UserID, id, fields)
	if err != nil {
		return apps.StoreError(c, err, "project")
	}
	return c.JSON(project)
}

func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !models.OneOf(req.Status, models.ProjectStatuses) {
		return apps.Fail(c, fiber.StatusBadRequest, ErrInvalidStatus.Error())
	}

	project, err := h.store.UpdateStatus(c.UserContext(), sess.UserID, id, req.Status)
	if err != nil {
		return apps.StoreError(c, err, "project")
	}
	return c.JSON(project)
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	if err := h.store.Delete(c.UserContext(), sess.UserID, id); err != nil {
		return apps.StoreError(c, err, "project")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProjectHandler) Export(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projects, err := h.store.List(c.UserContext(), sess.UserID)
	if err != nil {
		return apps.StoreError(c, err, "project")
	}
	return apps.SendCSV(c, export.Projects(projects))
}

// Convert opens a standard-plan support client for the project and marks the
// project completed.
func (h *ProjectHandler) Convert(c *fiber.Ctx) error {
	sess, err := session.From(c)
	if err != nil {
		return apps.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apps.Fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	client, err := h.engine.ConvertProjectToSupportClient(c.UserContext(), sess, id)
	if err != nil {
		return apps.TransitionFailure(c, sess, err, "project")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}
