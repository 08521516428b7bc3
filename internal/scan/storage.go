package scan

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage keeps the original uploaded receipt files.
type Storage interface {
	// Save stores a file and returns the path it can be fetched by.
	Save(filename string, data []byte) (string, error)

	// Get retrieves a stored file.
	Get(path string) ([]byte, error)

	// Delete removes a stored file.
	Delete(path string) error
}

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the storage directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes a file under the storage directory.
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(l.basePath, filename), data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get reads a stored file.
func (l *LocalStorage) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file.
func (l *LocalStorage) Delete(path string) error {
	if err := os.Remove(filepath.Join(l.basePath, path)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
