package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"github.com/hairvana/hairvana-backend/internal/services"
)

const maxImageDataSize = 3 * 1024 * 1024

type AnalysisHandler struct {
	analysis *services.AnalysisService
}

func NewAnalysisHandler(analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

func (h *AnalysisHandler) FaceShape(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	req, errResp := parseImageRequest(c)
	if errResp != nil {
		return errResp
	}

	resp, err := h.analysis.AnalyzeFaceShape(userID, req.ImageData, req.ImageURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Analysis failed"))
	}
	return c.JSON(resp)
}

func (h *AnalysisHandler) HairType(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	req, errResp := parseImageRequest(c)
	if errResp != nil {
		return errResp
	}

	resp, err := h.analysis.AnalyzeHairType(userID, req.ImageData, req.ImageURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Analysis failed"))
	}
	return c.JSON(resp)
}

func (h *AnalysisHandler) HaircutQuiz(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Invalid request body"))
	}
	if len(req.Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Quiz answers are required"))
	}

	resp, err := h.analysis.RunHaircutQuiz(userID, req.Answers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Quiz failed"))
	}
	return c.JSON(resp)
}

func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	results, err := h.analysis.History(userID, c.Query("kind"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to load history"))
	}

	resp := dto.AnalysisHistoryResponse{Success: true, Items: make([]dto.AnalysisHistoryItem, len(results))}
	for i, r := range results {
		item := dto.AnalysisHistoryItem{ID: r.ID, Kind: r.Kind, CreatedAt: r.CreatedAt}
		_ = json.Unmarshal(r.Result, &item.Result)
		resp.Items[i] = item
	}
	return c.JSON(resp)
}

func parseImageRequest(c *fiber.Ctx) (*dto.AnalyzeImageRequest, error) {
	var req dto.AnalyzeImageRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Invalid request body"))
	}
	if req.ImageData == "" && req.ImageURL == "" {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Either image_data or image_url is required"))
	}
	if len(req.ImageData) > maxImageDataSize {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Image data too large. Maximum 3MB base64."))
	}
	return &req, nil
}
