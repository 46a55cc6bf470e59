package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription plan names.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Subscription statuses.
const (
	SubStatusActive    = "active"
	SubStatusCancelled = "cancelled"
	SubStatusExpired   = "expired"
)

// Subscription drives the recurring credit distribution job.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanName   string    `gorm:"size:50;not null" json:"plan_name"`
	Status     string    `gorm:"size:50;not null;default:'active';index" json:"status"`
	ProviderID string    `gorm:"size:128;index" json:"provider_id,omitempty"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null" json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
