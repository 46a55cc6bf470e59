package dto

import "time"

type CreateCheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required,oneof=starter_pack monthly yearly"`
}

type CreateCheckoutResponse struct {
	Success     bool   `json:"success"`
	OrderNo     string `json:"order_no"`
	CheckoutURL string `json:"checkout_url"`
}

type BalanceResponse struct {
	Success        bool `json:"success"`
	CurrentCredits int  `json:"currentCredits"`
	IsSubscribed   bool `json:"isSubscribed"`
}

type LedgerEntryResponse struct {
	TransNo   string     `json:"trans_no"`
	TransType string     `json:"trans_type"`
	Credits   int        `json:"credits"`
	OrderNo   string     `json:"order_no,omitempty"`
	ExpiredAt *time.Time `json:"expired_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type LedgerHistoryResponse struct {
	Success bool                  `json:"success"`
	Entries []LedgerEntryResponse `json:"entries"`
	Page    int                   `json:"page"`
}

// DistributionResult aggregates one run of the recurring credit job.
type DistributionResult struct {
	Processed   int      `json:"processed"`
	Distributed int      `json:"distributed"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors"`
}
