package handlers

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"github.com/hairvana/hairvana-backend/internal/services"
)

const maxUploadSize = 4 * 1024 * 1024

type HairstyleHandler struct {
	hairstyles  *services.HairstyleService
	authService *services.AuthService
	feedback    *services.FeedbackService
}

func NewHairstyleHandler(hairstyles *services.HairstyleService, authService *services.AuthService, feedback *services.FeedbackService) *HairstyleHandler {
	return &HairstyleHandler{hairstyles: hairstyles, authService: authService, feedback: feedback}
}

// Submit accepts a photo plus style parameters and forwards the job to the AI
// vendor. Anonymous callers spend the daily free quota; subscribers spend
// credits.
func (h *HairstyleHandler) Submit(c *fiber.Ctx) error {
	userID := middleware.OptionalUserID(c)
	if userID != nil {
		// The token may outlive the account; re-validate against the DB.
		if _, err := h.authService.GetUser(*userID); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
		}
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Image file is required"))
	}
	if file.Size > maxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Image too large. Maximum 4MB."))
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/jpeg") && !strings.HasPrefix(contentType, "image/png") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Only JPEG and PNG images are supported"))
	}

	hairStyle := c.FormValue("hair_style")
	if hairStyle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "hair_style is required"))
	}
	color := c.FormValue("color")

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to read image"))
	}
	defer f.Close()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to read image data"))
	}

	taskID, err := h.hairstyles.Submit(c.Context(), services.SubmitInput{
		UserID:    userID,
		ClientIP:  c.IP(),
		Image:     imageBytes,
		Filename:  file.Filename,
		HairStyle: hairStyle,
		Color:     color,
	})
	if err != nil {
		return h.translateSubmitError(c, err)
	}

	if userID != nil {
		if err := h.feedback.RecordGeneration(*userID); err != nil {
			slog.Warn("failed to record generation for feedback prompt", "user_id", *userID, "error", err)
		}
	}

	return c.JSON(dto.SubmitResponse{Success: true, TaskID: taskID})
}

// Status polls the vendor for an async task result.
func (h *HairstyleHandler) Status(c *fiber.Ctx) error {
	taskID := c.Query("taskId")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "taskId is required"))
	}

	result, err := h.hairstyles.TaskStatus(c.Context(), taskID)
	if err != nil {
		slog.Error("vendor task query failed", "task_id", taskID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.NewAPIError(dto.ErrTypeUpstream, "Failed to query task status"))
	}

	return c.JSON(dto.TaskStatusResponse{
		Success: true,
		TaskID:  taskID,
		Status:  result.Status,
		Result:  result.Result,
	})
}

// Quota reports the caller's remaining free generations for today.
func (h *HairstyleHandler) Quota(c *fiber.Ctx) error {
	remaining, err := h.hairstyles.RemainingFree(c.Context(), c.IP())
	if err != nil {
		slog.Error("quota lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to check quota"))
	}

	return c.JSON(dto.QuotaResponse{
		Success:   true,
		Remaining: remaining,
		Limit:     services.AnonymousDailyLimit,
	})
}

func (h *HairstyleHandler) translateSubmitError(c *fiber.Ctx, err error) error {
	var insufficient *services.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficient):
		resp := dto.NewAPIError(dto.ErrTypeInsufficientCredits, "Not enough credits for a generation")
		resp.CurrentCredits = &insufficient.CurrentCredits
		return c.Status(fiber.StatusPaymentRequired).JSON(resp)
	case errors.Is(err, services.ErrDailyLimitReached):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.NewAPIError(dto.ErrTypeDailyLimit, "Daily free generation limit reached. Sign up or subscribe for more."))
	case errors.Is(err, services.ErrVendorUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.NewAPIError(dto.ErrTypeUpstream, services.VendorFailureMessage))
	default:
		slog.Error("hairstyle submit failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Something went wrong. Please try again."))
	}
}
