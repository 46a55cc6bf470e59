package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/content"
	"github.com/hairvana/hairvana-backend/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		CreemWebhookKey: "whsec_test",
		CronSecret:      "cron_test",
	}
	registry := content.NewRegistry()

	Setup(app, cfg, nil,
		handlers.NewAuthHandler(nil),
		handlers.NewHealthHandler(registry),
		handlers.NewCreditHandler(nil, nil),
		handlers.NewCheckoutHandler(nil),
		handlers.NewWebhookHandler(nil, cfg),
		handlers.NewCronHandler(nil, cfg),
		handlers.NewHairstyleHandler(nil, nil, nil),
		handlers.NewAnalysisHandler(nil),
		handlers.NewFeedbackHandler(nil),
		handlers.NewPageHandler(registry),
	)
	return app
}

// Payment providers redeliver webhooks in bursts from a single egress IP, and
// the scheduler shares that property. Both endpoints answer with their own
// bearer auth and must never be cut off by the per-IP limiter.
func TestWebhookAndCronExemptFromRateLimit(t *testing.T) {
	app := newTestApp()

	// Exhaust the general per-IP budget on a public route.
	for i := 0; i < 60; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/pages", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/pages", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// Unauthenticated webhook and cron posts still reach their handlers.
	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/webhooks/creem", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/cron/distribute-credits", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
