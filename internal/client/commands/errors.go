package commands

import (
	"context"
	"errors"
	"net"
	"strings"

	"wilddocs/internal/client"
	domainerrors "wilddocs/internal/domain/errors/domain"
	"wilddocs/internal/domain/valueobject"
)

// Error codes reported in the output envelope.
const (
	errCodeInvalidConfig    = "INVALID_CONFIG"
	errCodeInvalidArgument  = "INVALID_ARGUMENT"
	errCodeInvalidGitHubURL = "INVALID_GITHUB_URL"
	errCodeAPIKeyMissing    = "API_KEY_MISSING"
	errCodeUnauthorized     = "UNAUTHORIZED"
	errCodeConnectionError  = "CONNECTION_ERROR"
	errCodeTimeoutError     = "TIMEOUT_ERROR"
	errCodeNotFound         = "NOT_FOUND"
	errCodeServerError      = "SERVER_ERROR"
	errCodeAPIError         = "API_ERROR"
	errCodeQueryFailed      = "QUERY_FAILED"
	errCodeIngestFailed     = "INGEST_FAILED"
)

// determineErrorCode classifies err for the output envelope:
//   - INVALID_GITHUB_URL: the URL could not be normalized
//   - API_KEY_MISSING / UNAUTHORIZED: credential problems
//   - INVALID_ARGUMENT: empty query or other bad input
//   - QUERY_FAILED: the backend answered with status "error"
//   - TIMEOUT_ERROR / CONNECTION_ERROR: transport failures
//   - NOT_FOUND / SERVER_ERROR / API_ERROR: other HTTP failures
func determineErrorCode(err error) string {
	if _, ok := valueobject.ReadmeErrorKind(err); ok {
		return errCodeInvalidGitHubURL
	}

	switch {
	case errors.Is(err, domainerrors.ErrAPIKeyMissing):
		return errCodeAPIKeyMissing
	case errors.Is(err, domainerrors.ErrInvalidAPIKey):
		return errCodeUnauthorized
	case errors.Is(err, domainerrors.ErrAPIKeyFormat),
		errors.Is(err, domainerrors.ErrEmptyQuery),
		errors.Is(err, domainerrors.ErrInvalidInput):
		return errCodeInvalidArgument
	case errors.Is(err, domainerrors.ErrQueryFailed):
		return errCodeQueryFailed
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, client.ErrPollingTimeout):
		return errCodeTimeoutError
	case errors.Is(err, client.ErrResultCountMismatch):
		return errCodeAPIError
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNotFound():
			return errCodeNotFound
		case apiErr.IsServerError():
			return errCodeServerError
		default:
			return errCodeAPIError
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errCodeTimeoutError
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errCodeConnectionError
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return errCodeConnectionError
	}
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		return errCodeTimeoutError
	}
	return errCodeAPIError
}

// errorDetails returns structured context for err, or nil.
func errorDetails(err error) interface{} {
	var readmeErr *valueobject.ReadmeURLError
	if errors.As(err, &readmeErr) {
		return map[string]string{
			"kind":  readmeErr.Kind.String(),
			"input": readmeErr.Input,
		}
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		details := map[string]interface{}{"status_code": apiErr.StatusCode}
		if apiErr.Detail != "" {
			details["detail"] = apiErr.Detail
		}
		return details
	}
	return nil
}
