package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage implements Storage on the local filesystem. Intended for
// development and tests.
type LocalStorage struct {
	root string
}

// NewLocal creates a local storage backend rooted at the given directory.
func NewLocal(root string) (*LocalStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Upload stores a document blob under the storage root.
func (l *LocalStorage) Upload(_ context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error) {
	key := objectKey(docID, filename)

	fullPath, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("creating document directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("creating document file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("writing document file: %w", err)
	}

	return key, nil
}

// Download retrieves a document blob from the storage root.
func (l *LocalStorage) Download(_ context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath, err := l.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("opening document file: %w", err)
	}
	return f, nil
}

// Delete removes a document blob from the storage root.
func (l *LocalStorage) Delete(_ context.Context, storagePath string) error {
	fullPath, err := l.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing document file: %w", err)
	}
	return nil
}

// resolve joins a storage path to the root, rejecting traversal outside it.
func (l *LocalStorage) resolve(storagePath string) (string, error) {
	fullPath := filepath.Join(l.root, filepath.FromSlash(storagePath))
	rootAbs, err := filepath.Abs(l.root)
	if err != nil {
		return "", fmt.Errorf("resolving storage root: %w", err)
	}
	pathAbs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("resolving document path: %w", err)
	}
	if pathAbs != rootAbs && !strings.HasPrefix(pathAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage path escapes root: %q", storagePath)
	}
	return pathAbs, nil
}
