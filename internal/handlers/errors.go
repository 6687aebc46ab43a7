package handlers

import "net/http"

// APIError is the JSON error body of the API: {"error": "..."}.
type APIError struct {
	status  int
	Message string `json:"error"`
}

// NewAPIError creates an error with the given HTTP status.
func NewAPIError(status int, message string) *APIError {
	return &APIError{status: status, Message: message}
}

func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}

	return e.status
}
