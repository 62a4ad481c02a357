package comicvine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingSource serves testTypes and counts fetches
type countingSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingSource) FetchTypes(ctx context.Context) ([]TypeDescriptor, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return testTypes, nil
}

func TestTypeCacheTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewTypeCache(WithClock(clock.Now))
	src := &countingSource{}
	ctx := context.Background()

	assert.True(t, cache.RefreshedAt().IsZero())

	_, err := cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, clock.Now(), cache.RefreshedAt())

	// Within the TTL no fetch happens
	clock.Advance(3 * time.Hour)
	_, err = cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	// Exactly at the TTL the generation is still fresh
	clock.Advance(time.Hour)
	_, err = cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	clock.Advance(time.Second)
	_, err = cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestTypeCacheReplacesEntriesAfterTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewTypeCache(WithClock(clock.Now), WithTTL(time.Minute))
	ctx := context.Background()

	renamed := []TypeDescriptor{
		{DetailResourceName: "issue", ListResourceName: "issues", ID: 9000},
		{DetailResourceName: "story_arc", ListResourceName: "story_arcs", ID: 4045},
	}
	generations := [][]TypeDescriptor{testTypes, renamed}
	var calls atomic.Int32
	src := TypeSourceFunc(func(ctx context.Context) ([]TypeDescriptor, error) {
		n := calls.Add(1)
		return generations[min(int(n), len(generations))-1], nil
	})

	types, err := cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, testTypes, types)

	clock.Advance(time.Minute + time.Second)

	types, err = cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, renamed, types)
	assert.Equal(t, int32(2), calls.Load())

	td, found, err := cache.FindDetail(ctx, src, ResourceIssue)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 9000, td.ID)

	// Entries only present in the old generation are gone
	_, found, err = cache.FindDetail(ctx, src, ResourceVolume)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = cache.FindList(ctx, src, ResourceCharacters)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTypeCacheCallerCancellation(t *testing.T) {
	cache := NewTypeCache()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	src := TypeSourceFunc(func(ctx context.Context) ([]TypeDescriptor, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return testTypes, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Get(firstCtx, src)
		firstErr <- err
	}()
	<-started

	type result struct {
		types []TypeDescriptor
		err   error
	}
	second := make(chan result, 1)
	go func() {
		types, err := cache.Get(context.Background(), src)
		second <- result{types, err}
	}()

	// Let the second caller join the in-flight fetch
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the shared fetch")
	}

	close(release)

	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Equal(t, testTypes, res.types)
	case <-time.After(time.Second):
		t.Fatal("second caller never received the shared fetch")
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, cache.RefreshedAt().IsZero())
}

func TestTypeCacheFailedRefresh(t *testing.T) {
	clock := newFakeClock()
	cache := NewTypeCache(WithClock(clock.Now), WithTTL(time.Minute))
	ctx := context.Background()

	failing := &countingSource{err: errors.New("boom")}
	_, err := cache.Get(ctx, failing)
	require.Error(t, err)
	assert.True(t, cache.RefreshedAt().IsZero())

	// A later successful fetch populates the cache
	src := &countingSource{}
	require.NoError(t, cache.RefreshIfStale(ctx, src))
	refreshed := cache.RefreshedAt()

	// A failed refresh keeps the previous generation
	clock.Advance(2 * time.Minute)
	require.Error(t, cache.Refresh(ctx, failing))
	assert.Equal(t, refreshed, cache.RefreshedAt())
}

func TestTypeCacheForcedRefreshAndInvalidate(t *testing.T) {
	cache := NewTypeCache()
	src := &countingSource{}
	ctx := context.Background()

	require.NoError(t, cache.RefreshIfStale(ctx, src))
	require.NoError(t, cache.RefreshIfStale(ctx, src))
	assert.Equal(t, int32(1), src.calls.Load())

	require.NoError(t, cache.Refresh(ctx, src))
	assert.Equal(t, int32(2), src.calls.Load())

	cache.Invalidate()
	_, err := cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestTypeCacheFind(t *testing.T) {
	cache := NewTypeCache()
	src := &countingSource{}
	ctx := context.Background()

	td, found, err := cache.FindDetail(ctx, src, ResourceIssue)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4000, td.ID)

	td, found, err = cache.FindList(ctx, src, ResourceVolumes)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "volume", td.DetailResourceName)

	_, found, err = cache.FindDetail(ctx, src, ResourceIssues)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestTypeCacheConcurrentRefresh(t *testing.T) {
	cache := NewTypeCache()
	release := make(chan struct{})
	var calls atomic.Int32
	src := TypeSourceFunc(func(ctx context.Context) ([]TypeDescriptor, error) {
		calls.Add(1)
		<-release
		return testTypes, nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			types, err := cache.Get(context.Background(), src)
			assert.NoError(t, err)
			assert.Len(t, types, len(testTypes))
		}()
	}

	// Give the goroutines time to join the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestTypeCacheSharedBetweenClients(t *testing.T) {
	cache := NewTypeCache()
	first := newMockTransport()
	second := newMockTransport()

	a := newTestClient(t, first, WithTypeCache(cache))
	b := newTestClient(t, second, WithTypeCache(cache))

	_, err := a.Types(context.Background())
	require.NoError(t, err)
	_, err = b.Types(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, first.count("/types"))
	assert.Zero(t, second.count("/types"))
}
