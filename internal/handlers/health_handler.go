package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/content"
	"github.com/hairvana/hairvana-backend/internal/database"
	"github.com/hairvana/hairvana-backend/internal/dto"
)

type HealthHandler struct {
	registry *content.Registry
}

func NewHealthHandler(registry *content.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		PageCount: len(h.registry.Slugs()),
	})
}
