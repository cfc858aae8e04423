package storage

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"document-relay/internal/db"
)

// DatabaseStore keeps blobs in the blobs table next to the metadata.
type DatabaseStore struct {
	db *bun.DB
}

func NewDatabaseStore(db *bun.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Put(ctx context.Context, key string, data []byte) error {
	return db.PutBlob(ctx, s.db, key, data)
}

func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := db.GetBlob(ctx, s.db, key)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *DatabaseStore) Delete(ctx context.Context, key string) error {
	err := db.DeleteBlob(ctx, s.db, key)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
