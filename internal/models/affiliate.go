package models

import (
	"time"

	"github.com/google/uuid"
)

// Affiliate statuses.
const (
	AffiliateStatusPending = "pending"
	AffiliateStatusPaid    = "paid"
)

// Affiliate records a referral reward owed to the inviter once the invited
// user completes a paid order.
type Affiliate struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	InviterID    uuid.UUID `gorm:"type:uuid;not null;index" json:"inviter_id"`
	OrderNo      string    `gorm:"size:64;uniqueIndex" json:"order_no"`
	RewardAmount int64     `gorm:"not null;default:0" json:"reward_amount"` // cents
	Status       string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Affiliate) TableName() string {
	return "affiliates"
}
