package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a user-submitted rating plus free-text comment.
type Feedback struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Rating    int        `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Content   string     `gorm:"type:text" json:"content"`
	Email     string     `gorm:"size:255" json:"email,omitempty"`
	Status    string     `gorm:"size:20;not null;default:'new'" json:"status"`
	AdminNote string     `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

// FeedbackPrompt tracks whether and when a user was asked for feedback, so the
// prompt shows once after the third generation and stays quiet for 30 days
// after a dismissal.
type FeedbackPrompt struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	GenerationCount int        `gorm:"not null;default:0" json:"generation_count"`
	ShownAt         *time.Time `json:"shown_at,omitempty"`
	DismissedAt     *time.Time `json:"dismissed_at,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (FeedbackPrompt) TableName() string {
	return "feedback_prompts"
}
