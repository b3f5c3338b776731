package valueobject

import (
	"strings"

	domainerrors "wilddocs/internal/domain/errors/domain"
)

const (
	apiKeyPrefix       = "sk-"
	apiKeyMinLength    = 21
	apiKeyVisibleChars = 4
	apiKeyMaskPrefix   = "sk-...."
)

// APIKey is an OpenAI-style credential used to authorize backend calls.
// The zero value means "no key configured".
type APIKey struct {
	value string
}

// NewAPIKey validates key. Keys must start with "sk-" and be longer than 20 characters.
func NewAPIKey(key string) (APIKey, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, apiKeyPrefix) || len(key) < apiKeyMinLength {
		return APIKey{}, domainerrors.ErrAPIKeyFormat
	}
	return APIKey{value: key}, nil
}

// Value returns the secret. Use it only when building the Authorization header.
func (k APIKey) Value() string {
	return k.value
}

// IsZero reports whether no key is set.
func (k APIKey) IsZero() bool {
	return k.value == ""
}

// Masked returns the key with everything but the last four characters hidden.
func (k APIKey) Masked() string {
	if k.IsZero() {
		return ""
	}
	return apiKeyMaskPrefix + k.value[len(k.value)-apiKeyVisibleChars:]
}

// String returns the masked form so keys never leak through %v or logs.
func (k APIKey) String() string {
	return k.Masked()
}

// AuthorizationHeader returns the value for the HTTP Authorization header.
func (k APIKey) AuthorizationHeader() string {
	if k.IsZero() {
		return ""
	}
	return "Bearer " + k.value
}
