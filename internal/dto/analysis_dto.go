package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalyzeImageRequest struct {
	ImageData string `json:"image_data"`
	ImageURL  string `json:"image_url"`
}

type FaceShapeResponse struct {
	Success         bool     `json:"success"`
	FaceShape       string   `json:"faceShape"`
	Confidence      int      `json:"confidence"`
	Description     string   `json:"description"`
	RecommendedCuts []string `json:"recommendedCuts"`
}

type HairTypeResponse struct {
	Success     bool     `json:"success"`
	HairType    string   `json:"hairType"`
	Description string   `json:"description"`
	CareTips    []string `json:"careTips"`
}

type QuizRequest struct {
	Answers map[string]string `json:"answers"`
}

type QuizResponse struct {
	Success        bool   `json:"success"`
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
}

type AnalysisHistoryItem struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	Result    map[string]any `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}

type AnalysisHistoryResponse struct {
	Success bool                  `json:"success"`
	Items   []AnalysisHistoryItem `json:"items"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"max=4000"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type ShouldShowFeedbackResponse struct {
	Success bool `json:"success"`
	Show    bool `json:"show"`
}
