package support

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type SupportPlugin struct{}

func New() *SupportPlugin {
	return &SupportPlugin{}
}

func (p *SupportPlugin) ID() string { return "support" }

func (p *SupportPlugin) Models() []interface{} {
	return []interface{}{&models.SupportClient{}}
}

// Support clients are the end of the pipeline, so there is no convert route.
func (p *SupportPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewSupportClientHandler(store.NewSupportClientStore(deps.DB))

	router.Get("/support", handler.List)
	router.Post("/support", handler.Create)
	router.Get("/support/export", handler.Export)
	router.Get("/support/:id", handler.Get)
	router.Put("/support/:id", handler.Update)
	router.Patch("/support/:id/status", handler.UpdateStatus)
	router.Delete("/support/:id", handler.Delete)
}
