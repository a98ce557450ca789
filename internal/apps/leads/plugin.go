package leads

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type LeadsPlugin struct{}

func New() *LeadsPlugin {
	return &LeadsPlugin{}
}

func (p *LeadsPlugin) ID() string { return "leads" }

func (p *LeadsPlugin) Models() []interface{} {
	return []interface{}{&models.Lead{}}
}

func (p *LeadsPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewLeadHandler(store.NewLeadStore(deps.DB), deps.Engine)

	router.Get("/leads", handler.List)
	router.Post("/leads", handler.Create)
	router.Get("/leads/export", handler.Export)
	router.Get("/leads/:id", handler.Get)
	router.Put("/leads/:id", handler.Update)
	router.Patch("/leads/:id/status", handler.UpdateStatus)
	router.Delete("/leads/:id", handler.Delete)
	router.Post("/leads/:id/convert", handler.Convert)
}
