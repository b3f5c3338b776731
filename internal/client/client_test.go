package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wilddocs/internal/application/dto"
	"wilddocs/internal/client"
	domainerrors "wilddocs/internal/domain/errors/domain"
	"wilddocs/internal/domain/valueobject"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-test-0123456789abcdefWXYZ"

func newTestClient(t *testing.T, serverURL string, mutate ...func(*client.Config)) *client.Client {
	t.Helper()
	cfg := &client.Config{APIURL: serverURL, Timeout: 5 * time.Second}
	for _, m := range mutate {
		m(cfg)
	}
	c, err := client.NewClient(cfg)
	require.NoError(t, err)
	return c
}

func withKey(t *testing.T) func(*client.Config) {
	t.Helper()
	key, err := valueobject.NewAPIKey(testKey)
	require.NoError(t, err)
	return func(c *client.Config) { c.APIKey = key }
}

// TestNewClient_ValidConfig tests that a client can be created with valid configuration.
func TestNewClient_ValidConfig(t *testing.T) {
	t.Parallel()

	c, err := client.NewClient(&client.Config{APIURL: "http://localhost:8000/", Timeout: time.Second})

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL(), "trailing slash should be dropped")
}

// TestNewClient_NilConfig tests that NewClient returns an error for nil config.
func TestNewClient_NilConfig(t *testing.T) {
	t.Parallel()

	c, err := client.NewClient(nil)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestNewClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config client.Config
		errMsg string
	}{
		{name: "empty API URL", config: client.Config{Timeout: time.Second}, errMsg: "API URL cannot be empty"},
		{
			name:   "invalid URL scheme",
			config: client.Config{APIURL: "ftp://localhost:8000", Timeout: time.Second},
			errMsg: "http:// or https:// scheme",
		},
		{
			name:   "zero timeout",
			config: client.Config{APIURL: "http://localhost:8000"},
			errMsg: "timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := client.NewClient(&tt.config)

			require.Error(t, err)
			assert.Nil(t, c)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := client.DefaultConfig()

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.APIKey.IsZero())
	require.NoError(t, cfg.Validate())
}

func TestClient_Health(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	health, err := newTestClient(t, server.URL).Health(context.Background())

	require.NoError(t, err)
	assert.True(t, health.IsHealthy())
}

func TestClient_Headers(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wilddocs-client/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "X-Request-ID should be a UUID")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, withKey(t)).Health(context.Background())
	require.NoError(t, err)
}

func TestClient_NoAuthorizationWithoutKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	projects, err := newTestClient(t, server.URL).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestClient_RequireAPIKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, func(cfg *client.Config) { cfg.RequireAPIKey = true })
	_, err := c.Query(context.Background(), dto.QueryRequest{Query: "how do I install it?"})

	require.ErrorIs(t, err, domainerrors.ErrAPIKeyMissing)
	assert.Equal(t, "OpenAI API key not found. Please set your API key in the settings.", err.Error())
	assert.Zero(t, calls.Load(), "no request should be sent without a key")
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid API key"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, withKey(t)).ListProjects(context.Background())

	require.ErrorIs(t, err, domainerrors.ErrInvalidAPIKey)
	assert.Equal(t, "Invalid API key. Please check your settings.", err.Error())
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		notFound   bool
		serverErr  bool
	}{
		{name: "string detail", status: http.StatusInternalServerError, body: `{"detail":"Error processing query"}`, wantDetail: "Error processing query", serverErr: true},
		{name: "validation detail", status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","query"],"msg":"field required"}]}`, wantDetail: `[{"loc":["body","query"],"msg":"field required"}]`},
		{name: "plain text body", status: http.StatusBadGateway, body: "upstream down", serverErr: true},
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Not Found"}`, wantDetail: "Not Found", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Health(context.Background())

			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.notFound, apiErr.IsNotFound())
			assert.Equal(t, tt.serverErr, apiErr.IsServerError())
			assert.Contains(t, err.Error(), "API request failed")
		})
	}
}

func TestClient_Query(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "How do I configure logging?", req.Query, "query should be trimmed")

		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"answer": "Set **LOG_LEVEL**.",
				"sources": [{"title": "Logging", "url": "https://github.com/o/r/blob/main/README.md", "content": "Set LOG_LEVEL..."}],
				"metadata": {"model": "gpt-4", "run_id": "run-1"}
			}
		}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t, server.URL).Query(context.Background(), dto.QueryRequest{Query: "  How do I configure logging?  "})

	require.NoError(t, err)
	assert.False(t, resp.IsError())
	assert.Equal(t, "Set **LOG_LEVEL**.", resp.Data.Answer)
	require.Len(t, resp.Data.Sources, 1)
	assert.Equal(t, "Logging", resp.Data.Sources[0].Title)
	assert.Equal(t, "gpt-4", resp.Data.Metadata.ModelName())
	assert.Equal(t, "run-1", resp.Data.Metadata.RunIdentifier())
}

func TestClient_Query_Empty(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Query(context.Background(), dto.QueryRequest{Query: " \t\n"})

	require.ErrorIs(t, err, domainerrors.ErrEmptyQuery)
	assert.Zero(t, calls.Load())
}

func TestClient_Query_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","data":{"answer":"","sources":[],"metadata":{"model":null,"run_id":null},"error":"index unavailable"}}`))
	}))
	defer server.Close()

	resp, err := newTestClient(t, server.URL).Query(context.Background(), dto.QueryRequest{Query: "anything"})

	require.ErrorIs(t, err, domainerrors.ErrQueryFailed)
	assert.Contains(t, err.Error(), "index unavailable")
	require.NotNil(t, resp)
	assert.True(t, resp.IsError())
	assert.Empty(t, resp.Data.Metadata.ModelName())
}

func TestClient_ListProjects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"name": "gpt", "readmeUrl": "https://github.com/openai/gpt", "description": "Docs for gpt"},
			{"name": "cli", "readmeUrl": "https://github.com/acme/cli", "description": ""}
		]`))
	}))
	defer server.Close()

	projects, err := newTestClient(t, server.URL).ListProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, dto.Project{Name: "gpt", ReadmeURL: "https://github.com/openai/gpt", Description: "Docs for gpt"}, projects[0])
}

func TestClient_ListProjects_NullBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	projects, err := newTestClient(t, server.URL).ListProjects(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestClient_AddProject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents/process-github", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"repo_url":"https://github.com/openai/gpt/blob/main/README.md"}`, string(body))

		_, _ = w.Write([]byte(`{"success":true,"message":"Successfully processed README from openai/gpt"}`))
	}))
	defer server.Close()

	readme := valueobject.MustReadmeURL("https://github.com/openai/gpt")
	resp, err := newTestClient(t, server.URL).AddProject(context.Background(), readme)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "openai/gpt")
}

func TestClient_AddProject_ZeroURL(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "http://127.0.0.1:1")
	_, err := c.AddProject(context.Background(), valueobject.ReadmeURL{})

	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestClient_AddProjects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/process-multiple", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"repo_url":"https://github.com/openai/gpt/blob/main/README.md"},
			{"repo_url":"https://github.com/acme/cli/blob/v2/README.md"}
		]`, string(body))

		_, _ = w.Write([]byte(`[
			{"success":true,"message":"Successfully processed README from openai/gpt"},
			{"success":false,"message":"Failed to fetch README from acme/cli"}
		]`))
	}))
	defer server.Close()

	readmes := []valueobject.ReadmeURL{
		valueobject.MustReadmeURL("https://github.com/openai/gpt"),
		valueobject.MustReadmeURL("https://github.com/acme/cli/blob/v2/README.md"),
	}
	resp, err := newTestClient(t, server.URL).AddProjects(context.Background(), readmes)

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.True(t, resp[0].Success)
	assert.False(t, resp[1].Success)
	assert.Contains(t, resp[1].Message, "acme/cli")
}

func TestClient_AddProjects_ResultCountMismatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"success":true,"message":"ok"}]`))
	}))
	defer server.Close()

	readmes := []valueobject.ReadmeURL{
		valueobject.MustReadmeURL("https://github.com/openai/gpt"),
		valueobject.MustReadmeURL("https://github.com/acme/cli"),
	}
	_, err := newTestClient(t, server.URL).AddProjects(context.Background(), readmes)

	require.ErrorIs(t, err, client.ErrResultCountMismatch)
	assert.Contains(t, err.Error(), "1 results for 2 READMEs")
}

func TestClient_AddProjects_Empty(t *testing.T) {
	t.Parallel()

	_, err := newTestClient(t, "http://127.0.0.1:1").AddProjects(context.Background(), nil)

	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, server.URL).Health(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Health(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
