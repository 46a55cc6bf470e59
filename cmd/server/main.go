package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/redis/go-redis/v9"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/content"
	"github.com/hairvana/hairvana-backend/internal/database"
	"github.com/hairvana/hairvana-backend/internal/handlers"
	"github.com/hairvana/hairvana-backend/internal/logging"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"github.com/hairvana/hairvana-backend/internal/quota"
	"github.com/hairvana/hairvana-backend/internal/routes"
	"github.com/hairvana/hairvana-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Landing page registry
	registry, err := content.LoadFromFile(cfg.PagesConfigPath)
	if err != nil {
		slog.Error("failed to load page registry", "path", cfg.PagesConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("page registry loaded", "pages", len(registry.Slugs()))

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Redis backs the anonymous daily generation quota
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	dailyCounter := quota.NewRedisCounter(redisClient, "hairstyle")

	// Services
	creditService := services.NewCreditService(database.DB)
	authService := services.NewAuthService(database.DB, cfg, creditService)
	orderService := services.NewOrderService(database.DB, cfg, creditService)
	subscriptionService := services.NewSubscriptionService(database.DB, orderService)
	distributionService := services.NewDistributionService(database.DB, creditService)
	vendorClient := services.NewAILabClient(cfg.AILabBaseURL, cfg.AILabAPIKey, cfg.AILabTimeout)
	hairstyleService := services.NewHairstyleService(vendorClient, creditService, subscriptionService, dailyCounter)
	analysisService := services.NewAnalysisService(database.DB, cfg)
	feedbackService := services.NewFeedbackService(database.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(registry)
	creditHandler := handlers.NewCreditHandler(creditService, subscriptionService)
	checkoutHandler := handlers.NewCheckoutHandler(orderService)
	webhookHandler := handlers.NewWebhookHandler(subscriptionService, cfg)
	cronHandler := handlers.NewCronHandler(distributionService, cfg)
	hairstyleHandler := handlers.NewHairstyleHandler(hairstyleService, authService, feedbackService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	pageHandler := handlers.NewPageHandler(registry)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

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
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB,
		authHandler, healthHandler, creditHandler, checkoutHandler,
		webhookHandler, cronHandler, hairstyleHandler, analysisHandler,
		feedbackHandler, pageHandler)

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

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
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
