package services

import (
	"testing"
	"time"

	"github.com/hairvana/hairvana-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestShouldShowPrompt(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-5 * 24 * time.Hour)
	old := now.Add(-40 * 24 * time.Hour)

	tests := []struct {
		name   string
		prompt models.FeedbackPrompt
		want   bool
	}{
		{
			name:   "too few generations",
			prompt: models.FeedbackPrompt{GenerationCount: 2},
			want:   false,
		},
		{
			name:   "third generation triggers prompt",
			prompt: models.FeedbackPrompt{GenerationCount: 3},
			want:   true,
		},
		{
			name:   "already submitted never prompts again",
			prompt: models.FeedbackPrompt{GenerationCount: 10, SubmittedAt: &recent},
			want:   false,
		},
		{
			name:   "recent dismissal suppresses prompt",
			prompt: models.FeedbackPrompt{GenerationCount: 5, DismissedAt: &recent},
			want:   false,
		},
		{
			name:   "dismissal older than 30 days prompts again",
			prompt: models.FeedbackPrompt{GenerationCount: 5, DismissedAt: &old},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldShowPrompt(&tt.prompt, now))
		})
	}
}
