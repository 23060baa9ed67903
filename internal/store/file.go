package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a PersistentStore over per-key JSON files in a directory,
// typically ~/.hourglass.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the default store location under the user's home.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hourglass"
	}
	return filepath.Join(home, ".hourglass")
}

// Get reads the document for key. Absent files report ok=false.
func (f *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set replaces the document for key.
func (f *FileStore) Set(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
