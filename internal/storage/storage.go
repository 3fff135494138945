// Package storage holds file contents (blobs) addressed by opaque keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/clementroume/holbertonschool-files-manager/internal/config"
)

var (
	ErrNotExist   = errors.New("blob does not exist")
	ErrInvalidKey = errors.New("invalid blob key")
)

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores the content of r under key, replacing any previous blob
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns the blob stored under key, or ErrNotExist
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob; deleting a missing blob is not an error
	Delete(ctx context.Context, key string) error
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local", "":
		slog.Info("initializing local storage", "path", c.FolderPath)
		return NewLocalStorage(c.FolderPath)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(ctx, S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// ReadAll reads the whole blob stored under key.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}
