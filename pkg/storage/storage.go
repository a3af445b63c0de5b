package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/storage/minio"
	"github.com/intellidoc/backend/pkg/storage/s3"
)

// StorageType selects the object store backend.
type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage stores uploaded document files.
type Storage interface {
	// Store writes the file under key and returns the storage key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get opens the stored file for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the stored file.
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes files last modified before threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage creates the configured object store backend.
func NewStorage(storageType StorageType, log logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeS3:
		return s3.GetClient(log)
	case StorageTypeMinio:
		return minio.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
