package services

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/models"
	"gorm.io/gorm"
)

// Feedback prompt policy.
const (
	feedbackPromptAfter   = 3
	feedbackDismissWindow = 30 * 24 * time.Hour
)

type FeedbackService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db, validate: validator.New()}
}

func (s *FeedbackService) Submit(userID *uuid.UUID, req *dto.FeedbackRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	feedback := models.Feedback{
		ID:      uuid.New(),
		UserID:  userID,
		Rating:  req.Rating,
		Content: req.Content,
		Email:   req.Email,
		Status:  "new",
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		return err
	}

	if userID != nil {
		now := time.Now()
		s.db.Model(&models.FeedbackPrompt{}).
			Where("user_id = ?", *userID).
			Update("submitted_at", now)
	}
	return nil
}

// RecordGeneration bumps the user's generation count used by the feedback
// prompt policy.
func (s *FeedbackService) RecordGeneration(userID uuid.UUID) error {
	var prompt models.FeedbackPrompt
	err := s.db.Where("user_id = ?", userID).First(&prompt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.FeedbackPrompt{
			ID:              uuid.New(),
			UserID:          userID,
			GenerationCount: 1,
		}).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&prompt).Update("generation_count", gorm.Expr("generation_count + 1")).Error
}

// ShouldShow reports whether the feedback prompt should be displayed now.
func (s *FeedbackService) ShouldShow(userID uuid.UUID) (bool, error) {
	var prompt models.FeedbackPrompt
	err := s.db.Where("user_id = ?", userID).First(&prompt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	show := ShouldShowPrompt(&prompt, time.Now())
	if show {
		now := time.Now()
		s.db.Model(&prompt).Update("shown_at", now)
	}
	return show, nil
}

// Dismiss records that the user closed the prompt without submitting.
func (s *FeedbackService) Dismiss(userID uuid.UUID) error {
	now := time.Now()
	return s.db.Model(&models.FeedbackPrompt{}).
		Where("user_id = ?", userID).
		Update("dismissed_at", now).Error
}

// List returns recent feedback for the admin panel.
func (s *FeedbackService) List(page, pageSize int) ([]models.Feedback, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	var items []models.Feedback
	err := s.db.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&items).Error
	return items, err
}

// ShouldShowPrompt applies the prompt policy: after the third generation, not
// after a submission, and not within 30 days of a dismissal.
func ShouldShowPrompt(p *models.FeedbackPrompt, now time.Time) bool {
	if p.GenerationCount < feedbackPromptAfter {
		return false
	}
	if p.SubmittedAt != nil {
		return false
	}
	if p.DismissedAt != nil && now.Sub(*p.DismissedAt) < feedbackDismissWindow {
		return false
	}
	return true
}
