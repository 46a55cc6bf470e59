package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors the identity record locally for joins against billing tables.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"size:255" json:"name"`
	Image        string         `gorm:"type:text" json:"image"`
	Role         string         `gorm:"size:20;default:'user'" json:"role"`
	InviteCode   string         `gorm:"size:32;uniqueIndex" json:"invite_code"`
	InvitedBy    string         `gorm:"size:32;index" json:"invited_by,omitempty"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
