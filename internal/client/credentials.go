package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wilddocs/internal/domain/valueobject"

	"gopkg.in/yaml.v3"
)

const (
	credentialsFileMode = 0o600
	credentialsDirMode  = 0o700
)

// credentialsFile is the on-disk layout of the credential store.
type credentialsFile struct {
	APIKey string `yaml:"api_key"`
}

// CredentialStore persists the API key between invocations.
type CredentialStore struct {
	path string
}

// NewCredentialStore returns a store backed by the YAML file at path.
func NewCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		return nil, errors.New("credentials path cannot be empty")
	}
	return &CredentialStore{path: path}, nil
}

// Path returns the credentials file location.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load returns the stored key. The boolean is false when nothing is stored.
func (s *CredentialStore) Load() (valueobject.APIKey, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return valueobject.APIKey{}, false, nil
		}
		return valueobject.APIKey{}, false, fmt.Errorf("failed to read credentials: %w", err)
	}

	var file credentialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return valueobject.APIKey{}, false, fmt.Errorf("failed to parse credentials %s: %w", s.path, err)
	}
	if file.APIKey == "" {
		return valueobject.APIKey{}, false, nil
	}

	key, err := valueobject.NewAPIKey(file.APIKey)
	if err != nil {
		return valueobject.APIKey{}, false, fmt.Errorf("stored credentials in %s: %w", s.path, err)
	}
	return key, true, nil
}

// Save writes key to disk, readable only by the current user.
func (s *CredentialStore) Save(key valueobject.APIKey) error {
	if key.IsZero() {
		return errors.New("cannot save an empty API key")
	}

	data, err := yaml.Marshal(credentialsFile{APIKey: key.Value()})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), credentialsDirMode); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, credentialsFileMode); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Chmod(tmp, credentialsFileMode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to set credentials permissions: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

// Clear removes the stored key. Clearing an empty store is not an error.
func (s *CredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
