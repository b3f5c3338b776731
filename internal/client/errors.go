package client

import (
	"errors"
	"fmt"
	"net/http"

	domainerrors "wilddocs/internal/domain/errors/domain"
)

// ErrResultCountMismatch is returned when a batch response does not carry one
// outcome per submitted README.
var ErrResultCountMismatch = errors.New("unexpected number of results")

// APIError is returned for non-2xx responses other than 401.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string // Backend "detail" field, if any
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	if e.Detail == "" {
		return fmt.Sprintf("API request failed: %d %s", e.StatusCode, status)
	}
	return fmt.Sprintf("API request failed: %d %s: %s", e.StatusCode, status, e.Detail)
}

// IsNotFound reports whether the backend answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError reports whether the backend answered with a 5xx status.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// isPermanent reports whether retrying the request cannot succeed.
func isPermanent(err error) bool {
	if errors.Is(err, domainerrors.ErrAPIKeyMissing) || errors.Is(err, domainerrors.ErrInvalidAPIKey) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}
