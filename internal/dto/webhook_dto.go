package dto

// CreemWebhook is the payment provider's callback payload.
type CreemWebhook struct {
	EventID   string     `json:"id"`
	EventType string     `json:"eventType"`
	Object    CreemEvent `json:"object"`
}

type CreemEvent struct {
	CheckoutID     string `json:"checkout_id"`
	OrderNo        string `json:"request_id"`
	SubscriptionID string `json:"subscription_id"`
	CustomerEmail  string `json:"customer_email"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PeriodStartMs  int64  `json:"current_period_start"`
	PeriodEndMs    int64  `json:"current_period_end"`
}
