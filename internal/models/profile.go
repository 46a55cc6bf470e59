package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries the denormalized credit balance. CurrentCredits is recomputed
// from the ledger sum inside the same transaction as every ledger insert, so it
// can be read cheaply without summing credit_transactions on hot paths.
type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentCredits int       `gorm:"not null;default:0" json:"current_credits"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	User           User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}
