package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Analysis kinds.
const (
	AnalysisKindFaceShape   = "face_shape"
	AnalysisKindHairType    = "hair_type"
	AnalysisKindHaircutQuiz = "haircut_quiz"
)

// AnalysisResult stores the output of an LLM-backed analysis tool so the
// client can re-render it from history instead of re-running the model.
type AnalysisResult struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      string         `gorm:"size:50;not null;index" json:"kind"`
	Result    datatypes.JSON `gorm:"type:jsonb;not null" json:"result"`
	CreatedAt time.Time      `json:"created_at"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}
