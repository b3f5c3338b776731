package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"wilddocs/internal/client/commands"

	"github.com/stretchr/testify/require"
)

const testKey = "sk-test-0123456789abcdefWXYZ"

// envelope mirrors client.Response with Data kept raw for typed decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// testEnv isolates one CLI invocation: its own config file and credential store.
type testEnv struct {
	dir             string
	configPath      string
	credentialsPath string
}

// newTestEnv writes a config file for apiURL; apiExtra holds further
// indented keys of the api section.
func newTestEnv(t *testing.T, apiURL string, apiExtra string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:             dir,
		configPath:      filepath.Join(dir, "config.yaml"),
		credentialsPath: filepath.Join(dir, "credentials.yaml"),
	}

	content := fmt.Sprintf("api:\n  url: %s\n%scredentials:\n  path: %s\n", apiURL, apiExtra, env.credentialsPath)
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o600))
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	args = append(args,
		"--config", e.configPath,
		"--env-file", filepath.Join(e.dir, "missing.env"),
	)
	code := commands.Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (e *testEnv) runJSON(t *testing.T, args ...string) (envelope, int) {
	t.Helper()

	stdout, _, code := e.run(t, args...)
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &env), "stdout should hold one JSON envelope: %s", stdout)
	return env, code
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
