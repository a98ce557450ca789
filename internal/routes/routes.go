package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/authz"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	gate *authz.Gate,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
	plugins []apps.Plugin,
	deps apps.Deps,
) {
	// Prometheus scrape endpoint, outside the API rate limit.
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes carry the session; apply the middleware per route so
	// public auth routes stay open.
	authed := middleware.Authenticated(cfg)
	api.Post("/auth/logout", append(authed, authHandler.Logout)...)
	api.Delete("/auth/account", append(authed, authHandler.DeleteAccount)...)

	api.Get("/profile", append(authed, profileHandler.Me)...)
	api.Put("/profile", append(authed, profileHandler.UpdateMe)...)

	// Any signed-in user may ask whether they can open the admin panel.
	api.Get("/admin/access", append(authed, adminHandler.Access)...)

	admin := api.Group("/admin", append(authed, middleware.SuperAdminRequired(gate))...)
	admin.Get("/profiles", adminHandler.ListProfiles)
	admin.Put("/profiles/:id/role", adminHandler.SetRole)

	protected := api.Group("/p", authed...)
	for _, p := range plugins {
		p.RegisterRoutes(protected, deps)
	}
}
