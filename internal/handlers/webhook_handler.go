package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/services"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	cfg                 *config.Config
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{subscriptionService: subscriptionService, cfg: cfg}
}

// HandleCreem receives payment-provider callbacks. Deliveries may be repeated
// or concurrent; the order/ledger guards downstream keep the grant unique.
func (h *WebhookHandler) HandleCreem(c *fiber.Ctx) error {
	if h.cfg.CreemWebhookKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	expected := "Bearer " + h.cfg.CreemWebhookKey
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(expected)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var webhook dto.CreemWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if err := h.subscriptionService.HandleWebhookEvent(&webhook); err != nil {
		slog.Error("webhook processing failed", "event_id", webhook.EventID, "event_type", webhook.EventType, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_id", webhook.EventID, "event_type", webhook.EventType)
	return c.JSON(fiber.Map{"received": true})
}
