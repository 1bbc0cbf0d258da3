// Package storage provides blob storage for case documents behind a single
// interface with S3 and local-filesystem backends.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage stores and retrieves document blobs by an opaque storage path.
type Storage interface {
	Upload(ctx context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}

// Config selects and configures a storage backend.
type Config struct {
	Type         string // "local" or "s3"
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// New creates a storage backend from config.
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocal(cfg.LocalPath)
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}

// objectKey derives the storage path for a document. The document ID keeps
// keys unique even when filenames collide.
func objectKey(docID uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", docID, filepath.Base(filename))
}

func contentType(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
