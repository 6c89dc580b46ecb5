package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the single failure shape of the client. Transport failures have
// Status 0 and wrap the underlying error in Err.
type APIError struct {
	Message string
	Status  int
	// Payload holds the decoded JSON body, the raw text when it was not JSON,
	// or nil when the body was empty.
	Payload any
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Transport reports whether the request never produced an HTTP response.
func (e *APIError) Transport() bool {
	return e.Status == 0
}

// ErrorMessage extracts the human readable message from any client error.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func newStatusError(resp *http.Response, payload any) *APIError {
	msg := ""
	switch p := payload.(type) {
	case map[string]any:
		if s, ok := p["error"].(string); ok {
			msg = s
		}
	case string:
		msg = strings.TrimSpace(p)
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &APIError{
		Message: msg,
		Status:  resp.StatusCode,
		Payload: payload,
	}
}

func newTransportError(err error) *APIError {
	return &APIError{
		Message: fmt.Sprintf("backend unreachable: %v", err),
		Err:     err,
	}
}
