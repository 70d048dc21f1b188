package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/database"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/logging"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/routes"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	jsonHandler := logging.Setup()

	cfg := config.Load()

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (WARN+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB, slog.LevelWarn, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(jsonHandler, dbLogHandler)))

	// Background jobs
	jobs := scheduler.New()
	sessionStorage := database.NewSessionStorage(database.DB)
	if _, err := jobs.Every("session_gc", 10*time.Minute, func() error {
		deleted, err := sessionStorage.GC()
		if err == nil && deleted > 0 {
			slog.Info("expired sessions removed", "deleted", deleted)
		}
		return err
	}); err != nil {
		slog.Error("session gc schedule failed", "error", err)
		os.Exit(1)
	}
	if err := logging.ScheduleCleanup(jobs, database.DB, cfg.LogRetention); err != nil {
		slog.Error("log cleanup schedule failed", "error", err)
		os.Exit(1)
	}
	jobs.Start()

	// Google sign-in
	provider, err := services.LoadGoogleProvider(cfg.ClientSecretPath)
	if err != nil {
		slog.Error("failed to load client secrets", "path", cfg.ClientSecretPath, "error", err)
		os.Exit(1)
	}

	imageStore, err := newImageStore(cfg)
	if err != nil {
		slog.Error("image store init failed", "store", cfg.ImageStore, "error", err)
		os.Exit(1)
	}

	// Services
	userService := services.NewUserService(database.DB)
	categoryService := services.NewCategoryService(database.DB)
	imageService := services.NewImageService(imageStore, cfg.AllowedExtensions)
	itemService := services.NewItemService(database.DB, categoryService, imageService)
	catalogService := services.NewCatalogService(database.DB)
	authService := services.NewAuthService(provider, userService)

	// Sessions
	sessions := session.NewManager(session.NewStore(sessionStorage, cfg.SessionExpiry, cfg.SessionCookieSecure))

	// Handlers
	view := handlers.NewView(sessions, categoryService, cfg.AllowedExtensions)
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, view),
		Users:      handlers.NewUserHandler(userService, authService, view),
		Categories: handlers.NewCategoryHandler(categoryService, itemService, view),
		Items:      handlers.NewItemHandler(itemService, categoryService, imageService, view),
		Export:     handlers.NewExportHandler(catalogService, itemService),
		Health:     handlers.NewHealthHandler(),
	}

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
	app := fiber.New(routes.FiberConfig(cfg, routes.NewEngine()))

	// Sentry middleware
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
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, h, sessions)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
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

	jobs.Stop()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// newImageStore picks where uploaded pictures go. Local uploads must live
// under the static dir so /static can serve them.
func newImageStore(cfg *config.Config) (services.ImageStore, error) {
	if cfg.ImageStore == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		opts := services.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}
		client, err := services.NewS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return services.NewS3ImageStore(client, opts.Bucket, opts.PublicURL), nil
	}

	prefix, err := filepath.Rel(cfg.StaticDir, cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return services.NewLocalImageStore(cfg.UploadDir, filepath.ToSlash(prefix))
}
