package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campaignbuilder/internal/domain"
)

// FileStore persists job artifacts onto the local filesystem. Keys are
// slash separated paths relative to the base path; every job lives in its own
// subtree so concurrent jobs never touch each other's files.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Write persists the provided bytes at the given relative key and returns the
// canonicalized storage key. Keys are cleaned to prevent directory traversal.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", fmt.Errorf("storage: no store configured: %w", domain.ErrStorage)
	}
	if err := ctx.Err(); err != nil {
		return "", domain.AsStorage("storage: write", err)
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := s.fullPath(cleanKey)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %v: %w", err, domain.ErrStorage)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %v: %w", err, domain.ErrStorage)
	}
	return cleanKey, nil
}

// Read returns the bytes stored at key. Missing keys and directories yield
// domain.ErrNotFound.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("storage: no store configured: %w", domain.ErrStorage)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.AsStorage("storage: read", err)
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	fullPath := s.fullPath(cleanKey)
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: %q: %w", cleanKey, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: stat %q: %v: %w", cleanKey, err, domain.ErrStorage)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("storage: %q is a directory: %w", cleanKey, domain.ErrNotFound)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("storage: read %q: %v: %w", cleanKey, err, domain.ErrStorage)
	}
	return data, nil
}

// EnsureDir creates the directory at key and any missing parents.
func (s *FileStore) EnsureDir(ctx context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("storage: no store configured: %w", domain.ErrStorage)
	}
	if err := ctx.Err(); err != nil {
		return domain.AsStorage("storage: ensure directory", err)
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.fullPath(cleanKey), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory %q: %v: %w", cleanKey, err, domain.ErrStorage)
	}
	return nil
}

func (s *FileStore) fullPath(cleanKey string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("storage: key is required: %w", domain.ErrInvalidInput)
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("storage: invalid key %q: %w", key, domain.ErrInvalidInput)
	}
	return cleaned, nil
}
