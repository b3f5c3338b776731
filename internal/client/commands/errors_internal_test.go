package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"wilddocs/internal/client"
	domainerrors "wilddocs/internal/domain/errors/domain"
	"wilddocs/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
)

func TestDetermineErrorCode(t *testing.T) {
	t.Parallel()

	_, urlErr := valueobject.NewReadmeURL("https://example.com/a/b")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "readme url", err: urlErr, want: errCodeInvalidGitHubURL},
		{name: "missing key", err: domainerrors.ErrAPIKeyMissing, want: errCodeAPIKeyMissing},
		{name: "invalid key", err: domainerrors.ErrInvalidAPIKey, want: errCodeUnauthorized},
		{name: "key format", err: domainerrors.ErrAPIKeyFormat, want: errCodeInvalidArgument},
		{name: "empty query", err: domainerrors.ErrEmptyQuery, want: errCodeInvalidArgument},
		{name: "query failed", err: fmt.Errorf("%w: boom", domainerrors.ErrQueryFailed), want: errCodeQueryFailed},
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: errCodeTimeoutError},
		{name: "poll timeout", err: fmt.Errorf("waiting: %w", client.ErrPollingTimeout), want: errCodeTimeoutError},
		{name: "batch result mismatch", err: fmt.Errorf("%w: 1 results for 2 READMEs", client.ErrResultCountMismatch), want: errCodeAPIError},
		{name: "404", err: &client.APIError{StatusCode: 404}, want: errCodeNotFound},
		{name: "503", err: &client.APIError{StatusCode: 503}, want: errCodeServerError},
		{name: "422", err: &client.APIError{StatusCode: 422}, want: errCodeAPIError},
		{name: "dial", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: errCodeConnectionError},
		{name: "message fallback", err: errors.New("dial tcp: lookup backend: no such host"), want: errCodeConnectionError},
		{name: "unknown", err: errors.New("something else"), want: errCodeAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, determineErrorCode(tt.err))
		})
	}
}

func TestErrorDetails(t *testing.T) {
	t.Parallel()

	_, urlErr := valueobject.NewReadmeURL("https://github.com/openai")
	assert.Equal(t, map[string]string{"kind": "InvalidRepositoryPath", "input": "https://github.com/openai"}, errorDetails(urlErr))

	details := errorDetails(&client.APIError{StatusCode: 500, Detail: "boom"})
	assert.Equal(t, map[string]interface{}{"status_code": 500, "detail": "boom"}, details)

	assert.Nil(t, errorDetails(errors.New("plain")))
}
