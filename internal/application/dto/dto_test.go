package dto_test

import (
	"encoding/json"
	"testing"

	"wilddocs/internal/application/dto"
	"wilddocs/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "string detail", body: `{"detail":"Failed to process repository"}`, expected: "Failed to process repository"},
		{name: "list detail", body: `{"detail":[{"loc":["body","repo_url"]}]}`, expected: `[{"loc":["body","repo_url"]}]`},
		{name: "no detail", body: `{}`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))
			assert.Equal(t, tt.expected, resp.Message())
		})
	}
}

func TestQueryResponse_Decode(t *testing.T) {
	t.Parallel()

	body := `{
		"status": "success",
		"data": {
			"answer": "# Usage",
			"sources": [{"title": "Install", "url": "https://github.com/a/b/blob/main/README.md", "content": "go get"}],
			"metadata": {"model": "gpt-4-turbo-preview", "run_id": null}
		}
	}`

	var resp dto.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.False(t, resp.IsError())
	assert.Equal(t, "# Usage", resp.Data.Answer)
	require.Len(t, resp.Data.Sources, 1)
	assert.Equal(t, "Install", resp.Data.Sources[0].Title)
	assert.Equal(t, "gpt-4-turbo-preview", resp.Data.Metadata.ModelName())
	assert.Empty(t, resp.Data.Metadata.RunIdentifier())
}

func TestProcessGitHubRequest_Encode(t *testing.T) {
	t.Parallel()

	req := dto.ProcessGitHubRequest{RepoURL: valueobject.MustReadmeURL("https://github.com/openai/gpt")}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"repo_url":"https://github.com/openai/gpt/blob/main/README.md"}`, string(data))
}

func TestFindProject(t *testing.T) {
	t.Parallel()

	projects := []dto.Project{
		{Name: "gpt", ReadmeURL: "https://github.com/openai/gpt", Description: "GitHub Repository: gpt"},
		{Name: "go", ReadmeURL: "https://github.com/golang/go", Description: "GitHub Repository: go"},
	}

	found, ok := dto.FindProject(projects, "https://github.com/golang/go")
	require.True(t, ok)
	assert.Equal(t, "go", found.Name)

	_, ok = dto.FindProject(projects, "https://github.com/a/b")
	assert.False(t, ok)
}

func TestHealthResponse_IsHealthy(t *testing.T) {
	t.Parallel()

	assert.True(t, dto.HealthResponse{Status: "healthy"}.IsHealthy())
	assert.False(t, dto.HealthResponse{Status: "degraded"}.IsHealthy())
}
