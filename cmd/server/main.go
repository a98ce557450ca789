package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/go-redis/redis/v8"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps/leads"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps/projects"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/apps/support"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/authz"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if !cfg.UsesSQLite() && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateModels(database.DB, database.SharedModels()); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	logging.Attach(dbLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Transition guard: Redis when configured so that replicas share it.
	locker, closeLocker := newLocker(cfg)
	defer closeLocker()

	// Stores and lifecycle engine
	engine := lifecycle.NewEngine(
		store.NewLeadStore(database.DB),
		store.NewProjectStore(database.DB),
		store.NewSupportClientStore(database.DB),
		lifecycle.WithLocker(locker),
	)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	profileService := services.NewProfileService(database.DB)
	gate := authz.NewGate(database.DB)

	plugins := []apps.Plugin{
		leads.New(),
		projects.New(),
		support.New(),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if err := database.MigrateModels(database.DB, p.Models()); err != nil {
			slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
			os.Exit(1)
		}
		slog.Info("plugin migrated", "plugin", p.ID(), "models", len(p.Models()))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(profileService, gate)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, gate, authHandler, healthHandler, profileHandler, adminHandler, plugins, apps.Deps{
		DB:     database.DB,
		Engine: engine,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func newLocker(cfg *config.Config) (lifecycle.Locker, func()) {
	if cfg.RedisAddr == "" {
		slog.Info("transition lock: in-process")
		return lifecycle.NewMemoryLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	slog.Info("transition lock: redis", "addr", cfg.RedisAddr, "ttl", cfg.TransitionLockTTL.String())
	return lifecycle.NewRedisLocker(client, cfg.TransitionLockTTL), func() { _ = client.Close() }
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
