package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Order statuses.
const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusDeleted = "deleted"
)

// Plan intervals.
const (
	IntervalOneTime = "one_time"
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Order is created at checkout-session creation and transitions to paid
// exactly once. At most one granting ledger row ever exists per OrderNo.
type Order struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNo        string         `gorm:"size:64;not null;uniqueIndex" json:"order_no"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount         int64          `gorm:"not null" json:"amount"` // cents
	Currency       string         `gorm:"size:8;default:'usd'" json:"currency"`
	Credits        int            `gorm:"not null" json:"credits"`
	Status         string         `gorm:"size:20;not null;default:'created';index" json:"status"`
	CheckoutID     string         `gorm:"size:128;index" json:"checkout_id,omitempty"`
	PlanName       string         `gorm:"size:50" json:"plan_name"`
	Interval       string         `gorm:"size:20;default:'one_time'" json:"interval"`
	SubID          string         `gorm:"size:128" json:"sub_id,omitempty"`
	SubPeriodStart *time.Time     `json:"sub_period_start,omitempty"`
	SubPeriodEnd   *time.Time     `json:"sub_period_end,omitempty"`
	PaidAt         *time.Time     `json:"paid_at,omitempty"`
	PaidEmail      string         `gorm:"size:255" json:"paid_email,omitempty"`
	Metadata       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
