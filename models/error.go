package models

// ErrorResponse is the body the backend sends with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
