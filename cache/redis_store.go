package cache

import (
	"context"
	"fmt"

	"ChromaFM/model"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

// featureKeyPrefix namespaces feature records in Redis.
const featureKeyPrefix = "feature:"

// RedisStore is the durable FeatureStore used in production. Records are
// stored as JSON without expiry: the cache's value grows with reuse, so
// nothing evicts them. Unknown fields in stored records are ignored on
// read, which keeps old processes compatible with newer record layouts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the record for key, if present.
func (s *RedisStore) Get(ctx context.Context, key string) (*model.FeatureRecord, bool, error) {
	data, err := s.client.Get(ctx, featureKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get feature record %s: %w", key, err)
	}

	var rec model.FeatureRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("failed to decode feature record %s: %w", key, err)
	}
	return &rec, true, nil
}

// Put stores rec under key with SETNX semantics. If another computation
// already stored a record for the key, that first-completed record is read
// back and returned instead.
func (s *RedisStore) Put(ctx context.Context, key string, rec *model.FeatureRecord) (*model.FeatureRecord, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feature record %s: %w", key, err)
	}

	set, err := s.client.SetNX(ctx, featureKeyPrefix+key, data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to store feature record %s: %w", key, err)
	}
	if set {
		return rec, nil
	}

	// Lost the write race; the stored record is authoritative.
	existing, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return rec, nil
	}
	return existing, nil
}
