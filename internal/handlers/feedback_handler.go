package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"github.com/hairvana/hairvana-backend/internal/services"
)

type FeedbackHandler struct {
	feedback *services.FeedbackService
}

func NewFeedbackHandler(feedback *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	userID := middleware.OptionalUserID(c)

	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Invalid request body"))
	}

	if err := h.feedback.Submit(userID, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, err.Error()))
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *FeedbackHandler) ShouldShow(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	show, err := h.feedback.ShouldShow(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to check prompt state"))
	}
	return c.JSON(dto.ShouldShowFeedbackResponse{Success: true, Show: show})
}

// Dismiss records a prompt dismissal so the user is not asked again for 30 days.
func (h *FeedbackHandler) Dismiss(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	if err := h.feedback.Dismiss(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to record dismissal"))
	}
	return c.JSON(fiber.Map{"success": true})
}

// List serves the admin feedback panel.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	items, err := h.feedback.List(page, 20)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load feedback",
		})
	}
	return c.JSON(fiber.Map{"success": true, "items": items, "page": page})
}
