package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/content"
	"github.com/hairvana/hairvana-backend/internal/dto"
)

// PageHandler serves the landing-page content configs. One parameterized
// template on the frontend renders whichever config it fetches here.
type PageHandler struct {
	registry *content.Registry
}

func NewPageHandler(registry *content.Registry) *PageHandler {
	return &PageHandler{registry: registry}
}

func (h *PageHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "slugs": h.registry.Slugs()})
}

func (h *PageHandler) Get(c *fiber.Ctx) error {
	slug := c.Params("slug")
	page := h.registry.Get(slug)
	if page == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Unknown page"))
	}
	return c.JSON(fiber.Map{"success": true, "page": page})
}
