package domain

type ErrorResponse struct {
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}
