package projects

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type ProjectsPlugin struct{}

func New() *ProjectsPlugin {
	return &ProjectsPlugin{}
}

func (p *ProjectsPlugin) ID() string { return "projects" }

func (p *ProjectsPlugin) Models() []interface{} {
	return []interface{}{&models.Project{}}
}

func (p *ProjectsPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewProjectHandler(store.NewProjectStore(deps.DB), deps.Engine)

	router.Get("/projects", handler.List)
	router.Post("/projects", handler.Create)
	router.Get("/projects/export", handler.Export)
	router.Get("/projects/:id", handler.Get)
	router.Put("/projects/:id", handler.Update)
	router.Patch("/projects/:id/status", handler.UpdateStatus)
	router.Delete("/projects/:id", handler.Delete)
	router.Post("/projects/:id/convert", handler.Convert)
}
