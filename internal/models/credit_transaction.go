package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger transaction types.
const (
	TransTypeNewUser             = "new_user"
	TransTypeOrderPay            = "order_pay"
	TransTypeSystemAdd           = "system_add"
	TransTypePing                = "ping"
	TransTypeMonthlyDistribution = "monthly_distribution"
	TransTypeMonthlyRenewal      = "monthly_renewal"
	TransTypeHairstyle           = "hairstyle"
	TransTypePurchase            = "purchase"
)

// CreditTransaction is an immutable ledger row. Rows are only ever appended:
// positive credits are grants, negative credits are debits. A user's available
// balance is the sum of rows whose expired_at is null or in the future.
type CreditTransaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransNo   string     `gorm:"size:64;not null;uniqueIndex" json:"trans_no"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TransType string     `gorm:"size:50;not null;index" json:"trans_type"`
	Credits   int        `gorm:"not null" json:"credits"`
	OrderNo   string     `gorm:"size:64;index" json:"order_no,omitempty"`
	ExpiredAt *time.Time `gorm:"index" json:"expired_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
