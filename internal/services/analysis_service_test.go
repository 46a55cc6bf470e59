package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json passes through",
			in:   `{"face_shape":"oval"}`,
			want: `{"face_shape":"oval"}`,
		},
		{
			name: "json fence stripped",
			in:   "```json\n{\"face_shape\":\"oval\"}\n```",
			want: `{"face_shape":"oval"}`,
		},
		{
			name: "bare fence stripped",
			in:   "```\n{\"hair_type\":\"wavy\"}\n```",
			want: `{"hair_type":"wavy"}`,
		},
		{
			name: "surrounding prose removed",
			in:   `Sure! Here is the result: {"face_shape":"round"} Hope that helps.`,
			want: `{"face_shape":"round"}`,
		},
		{
			name: "no braces returns input",
			in:   "no json here",
			want: "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestScoreQuiz(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]string
		want    string
	}{
		{
			name:    "no answers falls back to default",
			answers: map[string]string{},
			want:    "Textured Crop",
		},
		{
			name:    "unknown questions ignored",
			answers: map[string]string{"zodiac": "leo"},
			want:    "Textured Crop",
		},
		{
			name: "short low-maintenance bold converges on buzz cut",
			answers: map[string]string{
				"maintenance": "low",
				"length":      "short",
				"vibe":        "bold",
			},
			want: "Buzz Cut",
		},
		{
			name: "professional medium upkeep picks side part",
			answers: map[string]string{
				"maintenance": "mid",
				"length":      "medium",
				"vibe":        "professional",
			},
			want: "Side Part",
		},
		{
			name: "answers are case and whitespace insensitive",
			answers: map[string]string{
				"maintenance": " LOW ",
				"length":      "Short",
				"vibe":        "BOLD",
			},
			want: "Buzz Cut",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreQuiz(tt.answers))
		})
	}
}

func TestScoreQuizDeterministic(t *testing.T) {
	answers := map[string]string{
		"maintenance": "high",
		"length":      "long",
		"vibe":        "casual",
	}
	first := ScoreQuiz(answers)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ScoreQuiz(answers))
	}
}

func TestNormalizeChoice(t *testing.T) {
	assert.Equal(t, "oval", normalizeChoice(" OVAL ", faceShapes))
	assert.Equal(t, "coily", normalizeChoice("coily", hairTypes))
	assert.Equal(t, "", normalizeChoice("triangle", faceShapes))
	assert.Equal(t, "", normalizeChoice("", hairTypes))
}

func TestDeterministicFallbacksAreStable(t *testing.T) {
	userID := uuid.MustParse("c7a2b9a0-0000-4000-8000-000000000001")

	face := deterministicFaceShape(userID, "photo-bytes")
	assert.Equal(t, face, deterministicFaceShape(userID, "photo-bytes"))
	assert.Contains(t, faceShapes, face.FaceShape)
	assert.GreaterOrEqual(t, face.Confidence, 60)
	assert.LessOrEqual(t, face.Confidence, 90)

	hair := deterministicHairType(userID, "photo-bytes")
	assert.Equal(t, hair, deterministicHairType(userID, "photo-bytes"))
	assert.Contains(t, hairTypes, hair.HairType)

	// Same seed is case and whitespace insensitive.
	assert.Equal(t, face, deterministicFaceShape(userID, "  PHOTO-BYTES  "))
}
