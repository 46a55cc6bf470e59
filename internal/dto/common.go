package dto

// Error types used in product API envelopes.
const (
	ErrTypeValidation          = "validation"
	ErrTypeAuth                = "auth"
	ErrTypeInsufficientCredits = "insufficient_credits"
	ErrTypeDailyLimit          = "daily_limit"
	ErrTypeUpstream            = "upstream"
	ErrTypeUnknown             = "unknown"
)

// ErrorResponse is the envelope for auth/admin endpoints.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// APIError is the envelope for product endpoints (generation, analysis).
// CurrentCredits is set on insufficient-credit responses so the client can
// show the balance next to the upsell.
type APIError struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	ErrorType      string `json:"errorType"`
	CurrentCredits *int   `json:"currentCredits,omitempty"`
}

func NewAPIError(errType, message string) APIError {
	return APIError{Success: false, Error: message, ErrorType: errType}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	PageCount int    `json:"page_count"`
}
