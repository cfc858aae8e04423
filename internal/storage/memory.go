package storage

import (
	"bytes"
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps blobs in process until they are deleted.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	s.cache.Set(key, bytes.Clone(data), gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, found := s.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	return bytes.Clone(val.([]byte)), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if _, found := s.cache.Get(key); !found {
		return ErrNotFound
	}
	s.cache.Delete(key)
	return nil
}
