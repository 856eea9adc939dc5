package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched for 404 responses and for single-record responses without a record.
	ErrNotFound = errors.New("employee not found")
	// ErrMissingToken is returned when the backend accepts a login but sends no token.
	ErrMissingToken = errors.New("login response carries no token")
)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}

	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// MessageOf returns the backend-provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
