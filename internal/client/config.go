package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wilddocs/internal/domain/valueobject"
)

// Default configuration values.
const (
	// DefaultAPIURL is the default backend URL.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Supported URL schemes.
const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Config holds the settings for connecting to the Wild Docs backend.
type Config struct {
	// APIURL is the base URL of the backend (e.g., "http://localhost:8000").
	// Must include the scheme (http:// or https://).
	APIURL string

	// Timeout is the maximum duration for HTTP requests.
	Timeout time.Duration

	// APIKey is sent as a Bearer token when set.
	APIKey valueobject.APIKey

	// RequireAPIKey makes every request fail with ErrAPIKeyMissing while APIKey is unset.
	RequireAPIKey bool
}

// DefaultConfig returns a Config pointing at a local backend with no credential.
func DefaultConfig() Config {
	return Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
}

// Validate validates the configuration and returns an error if any field is invalid.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("invalid configuration: API URL cannot be empty")
	}

	if !strings.HasPrefix(c.APIURL, schemeHTTP) && !strings.HasPrefix(c.APIURL, schemeHTTPS) {
		return fmt.Errorf("invalid configuration: API URL must have http:// or https:// scheme, got %q", c.APIURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid configuration: timeout must be positive, got %v", c.Timeout)
	}

	return nil
}
