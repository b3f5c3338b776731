package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"wilddocs/internal/client"
	domainerrors "wilddocs/internal/domain/errors/domain"
	"wilddocs/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *client.CredentialStore {
	t.Helper()
	store, err := client.NewCredentialStore(filepath.Join(t.TempDir(), "wilddocs", "credentials.yaml"))
	require.NoError(t, err)
	return store
}

func TestCredentialStore_Lifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found, "fresh store should be empty")

	key, err := valueobject.NewAPIKey(testKey)
	require.NoError(t, err)
	require.NoError(t, store.Save(key))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, found, err := store.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testKey, loaded.Value())

	require.NoError(t, store.Clear())
	_, found, err = store.Load()
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Clear(), "clearing twice should succeed")
}

func TestCredentialStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	first, err := valueobject.NewAPIKey("sk-first-0123456789abcdef")
	require.NoError(t, err)
	second, err := valueobject.NewAPIKey("sk-second-0123456789abcdef")
	require.NoError(t, err)

	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	loaded, _, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, second.Value(), loaded.Value())
}

func TestCredentialStore_SaveZeroKey(t *testing.T) {
	t.Parallel()

	err := newTestStore(t).Save(valueobject.APIKey{})
	require.Error(t, err)
}

func TestCredentialStore_LoadInvalidStoredKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: not-a-key\n"), 0o600))
	store, err := client.NewCredentialStore(path)
	require.NoError(t, err)

	_, _, err = store.Load()
	require.ErrorIs(t, err, domainerrors.ErrAPIKeyFormat)
}

func TestCredentialStore_LoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [oops"), 0o600))
	store, err := client.NewCredentialStore(path)
	require.NoError(t, err)

	_, _, err = store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse credentials")
}

func TestCredentialStore_LoadEmptyKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: \"\"\n"), 0o600))
	store, err := client.NewCredentialStore(path)
	require.NoError(t, err)

	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewCredentialStore_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := client.NewCredentialStore("")
	require.Error(t, err)
}
