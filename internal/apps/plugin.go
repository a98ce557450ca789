package apps

import (
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/lifecycle"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps is what every plugin receives when mounting its routes.
type Deps struct {
	DB *gorm.DB
	// Engine is shared so that the transition guard spans all plugins.
	Engine *lifecycle.Engine
}

// Plugin defines the interface every CRM entity module must implement.
type Plugin interface {
	// ID returns the unique plugin identifier, also used as the route prefix.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts entity routes on the given Fiber group.
	// The group is already prefixed with /api/p and carries the session.
	RegisterRoutes(router fiber.Router, deps Deps)
}
