package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(key string) *model.FeatureRecord {
	return &model.FeatureRecord{
		ArtworkKey: key,
		TrackID:    "track-1",
		Colors: model.ColorProfile{
			Clusters: []model.ColorWeight{
				{Color: model.RGB{R: 200, G: 40, B: 40}, Proportion: 1.0},
			},
		},
		ComputedAt: time.Now().UTC(),
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)

	var calls int32
	compute := func(ctx context.Context) (*model.FeatureRecord, error) {
		atomic.AddInt32(&calls, 1)
		return testRecord("k1"), nil
	}

	first, err := c.GetOrCompute(context.Background(), "k1", compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute(context.Background(), "k1", compute)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first.ArtworkKey, second.ArtworkKey)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrComputeConcurrentSingleFlight(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)

	var calls int32
	release := make(chan struct{})
	compute := func(ctx context.Context) (*model.FeatureRecord, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testRecord("shared"), nil
	}

	const waiters = 16
	var wg sync.WaitGroup
	results := make([]*model.FeatureRecord, waiters)
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrCompute(context.Background(), "shared", compute)
		}(i)
	}

	// Give every goroutine time to join the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent requests for one key must share a single computation")
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i].ArtworkKey)
	}
	assert.Equal(t, 1, store.Len())
}

func TestGetOrComputeCallerCancellationAbandonsWait(t *testing.T) {
	c := New(NewMemoryStore())

	release := make(chan struct{})
	compute := func(ctx context.Context) (*model.FeatureRecord, error) {
		<-release
		return testRecord("slow"), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.GetOrCompute(ctx, "slow", compute)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}
	close(release)
}

func TestGetOrComputeErrorIsNotCached(t *testing.T) {
	c := New(NewMemoryStore())
	boom := errors.New("decode failed")

	var calls int32
	failing := func(ctx context.Context) (*model.FeatureRecord, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	_, err := c.GetOrCompute(context.Background(), "bad", failing)
	assert.ErrorIs(t, err, boom)

	// A failed computation leaves nothing behind; the next request retries.
	rec, err := c.GetOrCompute(context.Background(), "bad", func(ctx context.Context) (*model.FeatureRecord, error) {
		return testRecord("bad"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bad", rec.ArtworkKey)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryStoreFirstWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := testRecord("k")
	first.TrackID = "winner"
	second := testRecord("k")
	second.TrackID = "loser"

	stored, err := store.Put(ctx, "k", first)
	require.NoError(t, err)
	assert.Equal(t, "winner", stored.TrackID)

	stored, err = store.Put(ctx, "k", second)
	require.NoError(t, err)
	assert.Equal(t, "winner", stored.TrackID, "a later write must not replace the stored record")

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "winner", got.TrackID)
}
