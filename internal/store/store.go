package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/sarnrak/internal/model"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is an opaque key-value store for serialized documents. It knows
// nothing about the wedding record it holds.
type BlobStore interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Open selects a BlobStore implementation from the storage configuration.
func Open(cfg model.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case model.StorageSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case model.StorageFile:
		return NewFileStore(cfg.Path)
	case model.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
