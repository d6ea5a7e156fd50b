package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the value for a key on a miss or after expiry.
type ComputeFunc[V any] func(ctx context.Context, key string) (V, error)

// entry stores a computed value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	createdAt time.Time
	ttl       time.Duration
	expiresAt time.Time
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// TTLCache is a read-through cache where every key carries its own TTL.
// Entries are only replaced after they expire; there is no background janitor
// and no eviction besides expiry.
type TTLCache[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]

	// sf collapses concurrent recomputations of the same key into one call.
	sf singleflight.Group

	// computeTimeout bounds a compute call; 0 leaves it to the compute func.
	computeTimeout time.Duration
}

// New creates an empty TTLCache.
func New[V any]() *TTLCache[V] {
	return NewWithComputeTimeout[V](0)
}

// NewWithComputeTimeout creates an empty TTLCache whose compute calls are
// cancelled after d.
func NewWithComputeTimeout[V any](d time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		items:          make(map[string]entry[V]),
		computeTimeout: d,
	}
}

// Get returns the cached value for key. When the key is missing or its entry
// expired (expiresAt < now) compute is called and its result stored for ttl.
// A failing compute stores nothing; the previous entry, if any, is kept.
//
// Concurrent callers missing on the same key share a single compute call and
// all receive its result, including the ttl chosen by the first caller. The
// compute runs detached from the callers' cancellation: a caller whose ctx
// ends gets ctx.Err() while the others keep waiting for the result.
func (c *TTLCache[V]) Get(ctx context.Context, key string, compute ComputeFunc[V], ttl time.Duration) (V, error) {
	var zero V
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	ch := c.sf.DoChan(key, func() (any, error) {
		// Another flight may have refreshed the key while we were queued.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		cctx := context.WithoutCancel(ctx)
		if c.computeTimeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(cctx, c.computeTimeout)
			defer cancel()
		}

		v, err := compute(cctx, key)
		if err != nil {
			return nil, err
		}
		c.set(key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// ExpiresAt reports when the entry for key expires.
func (c *TTLCache[V]) ExpiresAt(key string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok {
		return time.Time{}, false
	}
	return e.expiresAt, true
}

// Len returns the number of entries that have not expired yet.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ts := now()
	count := 0
	for _, e := range c.items {
		if !e.expiresAt.Before(ts) {
			count++
		}
	}
	return count
}

func (c *TTLCache[V]) lookup(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expiresAt.Before(now()) {
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[V]) set(key string, value V, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	created := now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[V]{
		value:     value,
		createdAt: created,
		ttl:       ttl,
		expiresAt: created.Add(ttl),
	}
}
