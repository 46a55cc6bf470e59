package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/handlers"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	creditHandler *handlers.CreditHandler,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
	cronHandler *handlers.CronHandler,
	hairstyleHandler *handlers.HairstyleHandler,
	analysisHandler *handlers.AnalysisHandler,
	feedbackHandler *handlers.FeedbackHandler,
	pageHandler *handlers.PageHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP. Webhook and cron endpoints
	// are exempt: they carry their own bearer secrets and provider
	// redeliveries can burst from a single egress IP.
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			return strings.HasPrefix(path, "/api/webhooks/") || strings.HasPrefix(path, "/api/cron/")
		},
	}))

	// Public
	api.Get("/health", healthHandler.Check)
	api.Get("/pages", pageHandler.List)
	api.Get("/pages/:slug", pageHandler.Get)

	// Auth — stricter rate limit: 10 req/min per IP
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

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Generation — anonymous callers allowed (free daily quota)
	api.Post("/hairstyle/submit", middleware.OptionalJWT(cfg), hairstyleHandler.Submit)
	api.Get("/hairstyle/submit", hairstyleHandler.Status)
	api.Get("/hairstyle/quota", hairstyleHandler.Quota)

	// Feedback submit allows anonymous too
	api.Post("/feedback", middleware.OptionalJWT(cfg), feedbackHandler.Submit)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so it cannot leak onto the public and webhook paths above
	api.Get("/credits", middleware.JWTProtected(cfg), creditHandler.Balance)
	api.Get("/credits/history", middleware.JWTProtected(cfg), creditHandler.History)
	api.Post("/checkout", middleware.JWTProtected(cfg), checkoutHandler.Create)
	api.Post("/face-shape", middleware.JWTProtected(cfg), analysisHandler.FaceShape)
	api.Post("/hair-type", middleware.JWTProtected(cfg), analysisHandler.HairType)
	api.Post("/quiz/haircut", middleware.JWTProtected(cfg), analysisHandler.HaircutQuiz)
	api.Get("/analysis/history", middleware.JWTProtected(cfg), analysisHandler.History)
	api.Get("/should-show-feedback", middleware.JWTProtected(cfg), feedbackHandler.ShouldShow)
	api.Post("/should-show-feedback", middleware.JWTProtected(cfg), feedbackHandler.Dismiss)

	// Admin
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/feedback", feedbackHandler.List)

	// Webhooks — provider bearer auth, no JWT
	api.Post("/webhooks/creem", webhookHandler.HandleCreem)

	// Cron — scheduler bearer auth, no JWT
	api.Post("/cron/distribute-credits", cronHandler.DistributeCredits)
}
