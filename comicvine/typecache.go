package comicvine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTypesTTL is how long fetched type descriptors stay fresh.
const DefaultTypesTTL = 4 * time.Hour

// TypeDescriptor links a resource's detail and list names to its numeric type id.
type TypeDescriptor struct {
	DetailResourceName string `json:"detail_resource_name" yaml:"detail_resource_name"`
	ListResourceName   string `json:"list_resource_name" yaml:"list_resource_name"`
	ID                 int    `json:"id" yaml:"id"`
}

// TypeSource fetches the full list of type descriptors from the API.
type TypeSource interface {
	FetchTypes(ctx context.Context) ([]TypeDescriptor, error)
}

// TypeSourceFunc adapts a function to TypeSource.
type TypeSourceFunc func(ctx context.Context) ([]TypeDescriptor, error)

// FetchTypes calls f.
func (f TypeSourceFunc) FetchTypes(ctx context.Context) ([]TypeDescriptor, error) {
	return f(ctx)
}

// typeGeneration is one immutable snapshot of the cache.
type typeGeneration struct {
	entries     []TypeDescriptor
	refreshedAt time.Time
}

// TypeCache holds type descriptors and refreshes them once they are older than
// the TTL. A cache can be shared by several clients; each call names the
// source used if a refresh is needed.
type TypeCache struct {
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	current atomic.Pointer[typeGeneration]
	group   singleflight.Group
}

// TypeCacheOption configures a TypeCache.
type TypeCacheOption func(*TypeCache)

// WithTTL sets how long a fetched generation stays fresh.
func WithTTL(ttl time.Duration) TypeCacheOption {
	return func(c *TypeCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TypeCacheOption {
	return func(c *TypeCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheLogger sets the logger used for refresh events.
func WithCacheLogger(logger zerolog.Logger) TypeCacheOption {
	return func(c *TypeCache) {
		c.logger = logger
	}
}

// NewTypeCache creates an empty cache.
func NewTypeCache(opts ...TypeCacheOption) *TypeCache {
	c := &TypeCache{
		ttl:    DefaultTypesTTL,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *TypeCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached descriptors, refreshing them first when the cache
// is empty or stale.
func (c *TypeCache) Get(ctx context.Context, src TypeSource) ([]TypeDescriptor, error) {
	if gen := c.fresh(); gen != nil {
		return gen.entries, nil
	}
	gen, err := c.refresh(ctx, src, false)
	if err != nil {
		return nil, err
	}
	return gen.entries, nil
}

// RefreshIfStale refreshes the cache only when it is empty or stale.
func (c *TypeCache) RefreshIfStale(ctx context.Context, src TypeSource) error {
	_, err := c.Get(ctx, src)
	return err
}

// Refresh fetches a new generation regardless of age.
func (c *TypeCache) Refresh(ctx context.Context, src TypeSource) error {
	_, err := c.refresh(ctx, src, true)
	return err
}

// Invalidate drops the current generation; the next Get refetches.
func (c *TypeCache) Invalidate() {
	c.current.Store(nil)
}

// RefreshedAt returns when the current generation was fetched, or the zero
// time if the cache is empty.
func (c *TypeCache) RefreshedAt() time.Time {
	if gen := c.current.Load(); gen != nil {
		return gen.refreshedAt
	}
	return time.Time{}
}

// FindDetail returns the first descriptor whose detail resource name is name.
func (c *TypeCache) FindDetail(ctx context.Context, src TypeSource, name Resource) (TypeDescriptor, bool, error) {
	return c.find(ctx, src, func(td TypeDescriptor) bool {
		return td.DetailResourceName == string(name)
	})
}

// FindList returns the first descriptor whose list resource name is name.
func (c *TypeCache) FindList(ctx context.Context, src TypeSource, name Resource) (TypeDescriptor, bool, error) {
	return c.find(ctx, src, func(td TypeDescriptor) bool {
		return td.ListResourceName == string(name)
	})
}

func (c *TypeCache) find(ctx context.Context, src TypeSource, match func(TypeDescriptor) bool) (TypeDescriptor, bool, error) {
	entries, err := c.Get(ctx, src)
	if err != nil {
		return TypeDescriptor{}, false, err
	}
	for _, td := range entries {
		if match(td) {
			return td, true, nil
		}
	}
	return TypeDescriptor{}, false, nil
}

// fresh returns the current generation if it is within the TTL.
func (c *TypeCache) fresh() *typeGeneration {
	gen := c.current.Load()
	if gen == nil || c.now().Sub(gen.refreshedAt) > c.ttl {
		return nil
	}
	return gen
}

// refresh fetches and swaps in a new generation. Concurrent callers share a
// single fetch; a failed fetch leaves the previous generation untouched.
// Unless forced, a generation stored by a fetch that finished in the meantime
// is reused. The shared fetch does not inherit the starting caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (c *TypeCache) refresh(ctx context.Context, src TypeSource, force bool) (*typeGeneration, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("types", func() (any, error) {
		if gen := c.fresh(); gen != nil && !force {
			return gen, nil
		}
		entries, err := src.FetchTypes(fetchCtx)
		if err != nil {
			return nil, err
		}
		gen := &typeGeneration{
			entries:     entries,
			refreshedAt: c.now(),
		}
		c.current.Store(gen)
		c.logger.Debug().
			Int("count", len(entries)).
			Dur("ttl", c.ttl).
			Msg("Refreshed Comic Vine type descriptors")
		return gen, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.logger.Debug().Err(res.Err).Bool("shared", res.Shared).Msg("Type descriptor refresh failed")
			return nil, res.Err
		}
		return res.Val.(*typeGeneration), nil
	}
}
