package dto

type SubmitResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId"`
}

type QuotaResponse struct {
	Success   bool `json:"success"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

type TaskStatusResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId"`
	Status  string `json:"status"` // processing | completed | failed
	Result  string `json:"result,omitempty"`
}
