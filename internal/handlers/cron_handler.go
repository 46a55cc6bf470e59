package handlers

import (
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/services"
)

type CronHandler struct {
	distribution *services.DistributionService
	cfg          *config.Config
}

func NewCronHandler(distribution *services.DistributionService, cfg *config.Config) *CronHandler {
	return &CronHandler{distribution: distribution, cfg: cfg}
}

// DistributeCredits runs the recurring credit grant batch. The scheduler
// authenticates with a shared bearer secret.
func (h *CronHandler) DistributeCredits(c *fiber.Ctx) error {
	if h.cfg.CronSecret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Cron not configured",
		})
	}

	authHeader := c.Get("Authorization")
	expected := "Bearer " + h.cfg.CronSecret
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(expected)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	result, err := h.distribution.Run(time.Now())
	if err != nil {
		slog.Error("distribution run failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Distribution run failed",
		})
	}

	return c.JSON(fiber.Map{"success": true, "result": result})
}
