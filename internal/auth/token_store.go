package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/frahmantamala/epic-crm/internal"
)

// FileTokenStore keeps the access token of the last CLI login on disk.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Path() string {
	return s.path
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the saved token, or ErrTokenMissing when nobody is logged in.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", internal.ErrTokenMissing
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", internal.ErrTokenMissing
	}
	return token, nil
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// CurrentIdentity verifies the saved token.
func (s *Service) CurrentIdentity(store *FileTokenStore) (Identity, error) {
	token, err := store.Load()
	if err != nil {
		return Identity{}, err
	}
	return s.Verify(token)
}
