package cache

import (
	"context"
	"sync"

	"ChromaFM/model"
)

// FeatureStore is the durable backing store of the feature cache, keyed by
// artwork content hash. Implementations must be safe for concurrent use.
//
// Put follows a first-write-wins discipline: when a record for the key is
// already present, the stored record is returned and the argument is
// discarded. This is how a write race between two computations for the same
// key resolves without ever corrupting the stored record.
type FeatureStore interface {
	Get(ctx context.Context, key string) (*model.FeatureRecord, bool, error)
	Put(ctx context.Context, key string, rec *model.FeatureRecord) (*model.FeatureRecord, error)
}

// MemoryStore is an in-process FeatureStore. It backs tests and cache-less
// runs; production uses RedisStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*model.FeatureRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*model.FeatureRecord)}
}

// Get returns the record for key, if present.
func (s *MemoryStore) Get(ctx context.Context, key string) (*model.FeatureRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, ok, nil
}

// Put stores rec under key unless a record is already present, in which
// case the existing record wins.
func (s *MemoryStore) Put(ctx context.Context, key string, rec *model.FeatureRecord) (*model.FeatureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		return existing, nil
	}
	s.records[key] = rec
	return rec, nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
