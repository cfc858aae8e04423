// Package storage holds the artifact bytes behind a small key/value
// interface. Keys are stored filenames.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"document-relay/internal/config"
)

var ErrNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend named by cfg.Backend. db is only used by the
// database backend and may be nil otherwise.
func New(cfg *config.StorageConfig, db *bun.DB) (BlobStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "disk":
		return NewDiskStore(cfg.Dir, cfg.Compress)
	case "database":
		if db == nil {
			return nil, errors.New("database storage backend requires a database connection")
		}
		return NewDatabaseStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
