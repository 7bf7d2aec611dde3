package cache

import (
	"context"

	"ChromaFM/logger"
	"ChromaFM/model"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces a feature record on a cache miss. It wraps whatever
// extractors the caller needs and is invoked at most once per key across
// all concurrent requests.
type ComputeFunc func(ctx context.Context) (*model.FeatureRecord, error)

// Cache is the read-through feature cache. It guarantees at most one
// concurrent computation per artwork key: the first caller for an uncached
// key computes, every other concurrent caller for that key waits and
// receives the shared result.
type Cache struct {
	store FeatureStore
	group singleflight.Group
}

// New creates a cache over the given backing store.
func New(store FeatureStore) *Cache {
	return &Cache{store: store}
}

// GetOrCompute returns the cached record for key, computing and storing it
// on a miss. A caller's cancellation abandons its wait but never cancels an
// in-flight computation other waiters share.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (*model.FeatureRecord, error) {
	if rec, ok, err := c.store.Get(ctx, key); err == nil && ok {
		return rec, nil
	} else if err != nil {
		logger.Warn("feature store read failed, recomputing",
			logger.String("artworkKey", key), logger.ErrorField(err))
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Detached from the requesting context: the computation is shared
		// property of every waiter, so one requester's cancellation must
		// not tear it down.
		dctx := context.WithoutCancel(ctx)

		// Re-check under the flight; another process may have stored the
		// record between the fast-path read and now.
		if rec, ok, err := c.store.Get(dctx, key); err == nil && ok {
			return rec, nil
		}

		rec, err := compute(dctx)
		if err != nil {
			return nil, err
		}

		stored, err := c.store.Put(dctx, key, rec)
		if err != nil {
			logger.Warn("feature store write failed, serving uncached record",
				logger.String("artworkKey", key), logger.ErrorField(err))
			return rec, nil
		}
		return stored, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.FeatureRecord), nil
	}
}
