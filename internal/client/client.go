package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wilddocs/internal/application/common/logging"
	"wilddocs/internal/application/common/slogger"
	"wilddocs/internal/application/dto"
	domainerrors "wilddocs/internal/domain/errors/domain"
	"wilddocs/internal/domain/valueobject"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	// userAgent is the User-Agent header value sent with all API requests.
	userAgent = "wilddocs-client/1.0"

	// contentTypeJSON is the Content-Type header value for JSON requests.
	contentTypeJSON = "application/json"

	// headerRequestID carries a per-request identifier for backend log correlation.
	headerRequestID = "X-Request-ID"

	// maxErrorBodyBytes bounds how much of an error response is read.
	maxErrorBodyBytes = 64 * 1024

	// API endpoint paths.
	pathHealth          = "/health"
	pathChatQuery       = "/api/chat/query"
	pathProjects        = "/api/projects"
	pathProcessGitHub   = "/api/documents/process-github"
	pathProcessMultiple = "/api/documents/process-multiple"
)

// Client provides methods for interacting with the Wild Docs backend.
// It handles authentication, request serialization, and response parsing.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	apiKey        valueobject.APIKey
	requireAPIKey bool
	metrics       *Metrics
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	httpClient    *http.Client
	meterProvider metric.MeterProvider
}

// WithHTTPClient replaces the default HTTP client. A nil client is ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithMeterProvider records request metrics on provider instead of the global one.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		if provider != nil {
			o.meterProvider = provider
		}
	}
}

// NewClient creates a new API client with the given configuration.
// Returns an error if the configuration is nil or invalid.
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := options{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: config.Timeout}
	}

	metrics, err := NewMetricsWithProvider(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create client metrics: %w", err)
	}

	return &Client{
		baseURL:       strings.TrimRight(config.APIURL, "/"),
		httpClient:    o.httpClient,
		apiKey:        config.APIKey,
		requireAPIKey: config.RequireAPIKey,
		metrics:       metrics,
	}, nil
}

// NewClientWithHTTPClient creates a new API client with the given configuration and HTTP client.
// If httpClient is nil, a default HTTP client with the configured timeout will be used.
func NewClientWithHTTPClient(config *Config, httpClient *http.Client) (*Client, error) {
	return NewClient(config, WithHTTPClient(httpClient))
}

// BaseURL returns the backend URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the given parameters and decodes the response.
// If body is non-nil, it will be JSON-encoded and sent with Content-Type: application/json.
// If result is non-nil, the response body will be JSON-decoded into it.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) (err error) {
	start := time.Now()
	statusCode := 0
	defer func() {
		c.metrics.RecordRequest(ctx, path, method, statusCode, time.Since(start), err)
	}()

	if c.requireAPIKey && c.apiKey.IsZero() {
		return domainerrors.ErrAPIKeyMissing
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	requestID := uuid.New().String()
	logCtx := logging.WithRequestID(ctx, requestID)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if !c.apiKey.IsZero() {
		req.Header.Set("Authorization", c.apiKey.AuthorizationHeader())
	}

	slogger.Debug(logCtx, "Sending API request", slogger.Fields{
		"method": method,
		"path":   path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	slogger.Debug(logCtx, "Received API response", slogger.Fields{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode == http.StatusUnauthorized {
		return domainerrors.ErrInvalidAPIKey
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var errResp dto.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil {
		apiErr.Detail = errResp.Message()
	}
	return apiErr
}

// Health performs a health check against the backend.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var result dto.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, pathHealth, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Query asks the backend a question about the ingested documentation.
// A blank query is rejected without contacting the backend. A response with
// status "error" is returned together with an error wrapping ErrQueryFailed.
func (c *Client) Query(ctx context.Context, req dto.QueryRequest) (*dto.QueryResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, domainerrors.ErrEmptyQuery
	}

	var result dto.QueryResponse
	if err := c.doRequest(ctx, http.MethodPost, pathChatQuery, req, &result); err != nil {
		return nil, err
	}

	if result.IsError() {
		if result.Data.Error != "" {
			return &result, fmt.Errorf("%w: %s", domainerrors.ErrQueryFailed, result.Data.Error)
		}
		return &result, domainerrors.ErrQueryFailed
	}
	return &result, nil
}

// ListProjects returns the repositories whose documentation has been ingested.
func (c *Client) ListProjects(ctx context.Context) ([]dto.Project, error) {
	var result []dto.Project
	if err := c.doRequest(ctx, http.MethodGet, pathProjects, nil, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = []dto.Project{}
	}
	return result, nil
}

// AddProject submits a README for ingestion.
func (c *Client) AddProject(ctx context.Context, readme valueobject.ReadmeURL) (*dto.ProcessResponse, error) {
	if readme.IsZero() {
		return nil, fmt.Errorf("%w: README URL is required", domainerrors.ErrInvalidInput)
	}

	var result dto.ProcessResponse
	req := dto.ProcessGitHubRequest{RepoURL: readme}
	if err := c.doRequest(ctx, http.MethodPost, pathProcessGitHub, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddProjects submits several READMEs in a single request. The backend answers
// with one outcome per README, in request order.
func (c *Client) AddProjects(ctx context.Context, readmes []valueobject.ReadmeURL) ([]dto.ProcessResponse, error) {
	if len(readmes) == 0 {
		return nil, fmt.Errorf("%w: at least one README URL is required", domainerrors.ErrInvalidInput)
	}

	reqs := make([]dto.ProcessGitHubRequest, 0, len(readmes))
	for _, readme := range readmes {
		if readme.IsZero() {
			return nil, fmt.Errorf("%w: README URL is required", domainerrors.ErrInvalidInput)
		}
		reqs = append(reqs, dto.ProcessGitHubRequest{RepoURL: readme})
	}

	var result []dto.ProcessResponse
	if err := c.doRequest(ctx, http.MethodPost, pathProcessMultiple, reqs, &result); err != nil {
		return nil, err
	}
	if len(result) != len(readmes) {
		return result, fmt.Errorf("%w: backend returned %d results for %d READMEs",
			ErrResultCountMismatch, len(result), len(readmes))
	}
	return result, nil
}
