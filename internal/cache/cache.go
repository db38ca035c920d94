// Package cache is a keyed request cache: it deduplicates concurrent
// fetches for the same key, serves entries as fresh inside a staleness
// window, refreshes stale entries in the background, and supports broad
// namespace invalidation after mutations.
package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/cinequest/cinequest-go/internal/apierr"
)

// DefaultTTL is the staleness window applied when none is configured.
const DefaultTTL = 5 * time.Minute

// FetchFunc loads the value for a key from the network.
type FetchFunc func(ctx context.Context) (any, error)

// Key joins a resource namespace and its parameters into a cache key.
// Invalidation matches on "/"-separated prefixes of these keys.
func Key(parts ...string) string { return strings.Join(parts, "/") }

type flight struct {
	done chan struct{}
	data any
	err  error
}

type entry struct {
	data      any
	fetchedAt time.Time
	inflight  *flight
}

// Cache holds query results keyed by resource+parameters.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	closed uint32
	wg     sync.WaitGroup
}

// New constructs a cache with the given staleness window; ttl <= 0 uses
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Close waits for background refreshes to settle. Safe to call once per
// cache; further Gets still work but skip background refreshing.
func (c *Cache) Close() {
	atomic.StoreUint32(&c.closed, 1)
	c.wg.Wait()
}

// Get returns the cached value for key, fetching on miss. Concurrent
// callers for the same key share one network call. A present-but-stale
// entry is returned immediately while one background refresh is kicked off.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.data != nil {
		fresh := c.now().Sub(e.fetchedAt) < c.ttl
		needsRefresh := !fresh && e.inflight == nil && atomic.LoadUint32(&c.closed) == 0
		var f *flight
		if needsRefresh {
			f = &flight{done: make(chan struct{})}
			e.inflight = f
		}
		data := e.data
		c.mu.Unlock()

		if fresh {
			hitsTotal.Inc()
		} else {
			staleServesTotal.Inc()
		}
		if needsRefresh {
			c.wg.Add(1)
			go c.backgroundRefresh(key, f, fetch)
		}
		return data, nil
	}

	// Miss: join an in-flight fetch when one exists.
	if ok && e.inflight != nil {
		f := e.inflight
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.data, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f := &flight{done: make(chan struct{})}
	c.entries[key] = &entry{inflight: f}
	c.mu.Unlock()
	missesTotal.Inc()

	return c.fill(ctx, key, f, fetch)
}

// Refetch bypasses the freshness check: it always performs a network fetch
// (joining an in-flight one if present) and repopulates the entry. This is
// the manual retry escape hatch.
func (c *Cache) Refetch(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.inflight != nil {
		f := e.inflight
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.data, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.inflight = f
	c.mu.Unlock()

	return c.fill(ctx, key, f, fetch)
}

func (c *Cache) fill(ctx context.Context, key string, f *flight, fetch FetchFunc) (any, error) {
	f.data, f.err = fetch(ctx)
	close(f.done)

	c.mu.Lock()
	e := c.entries[key]
	if e != nil && e.inflight == f {
		e.inflight = nil
		if f.err == nil {
			e.data = f.data
			e.fetchedAt = c.now()
		} else if e.data == nil {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return f.data, f.err
}

// backgroundRefresh reloads a stale entry without blocking the caller.
// Recoverable failures (5xx, network) are retried with capped exponential
// backoff; irrecoverable ones leave the stale entry for the next explicit
// Refetch.
func (c *Cache) backgroundRefresh(key string, f *flight, fetch FetchFunc) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	op := func() (any, error) {
		data, err := fetch(ctx)
		if err != nil && !apierr.IsRecoverable(err) {
			return nil, backoff.Permanent(err)
		}
		return data, err
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	data, err := backoff.RetryWithData(op, bo)

	f.data, f.err = data, err
	close(f.done)

	c.mu.Lock()
	e := c.entries[key]
	if e != nil && e.inflight == f {
		e.inflight = nil
		if err == nil {
			e.data = data
			e.fetchedAt = c.now()
		}
	}
	c.mu.Unlock()

	if err != nil {
		refreshFailuresTotal.Inc()
		log.Debug().Err(err).Str("key", key).Msg("background cache refresh failed")
	}
}

// Invalidate drops every entry whose key begins with the given prefix
// parts. Invalidate("ratings") clears the namespace; adding parts narrows
// the sweep. An entry mid-fetch is detached: its waiters still resolve,
// but the stale result is not stored, so the next Get refetches.
func (c *Cache) Invalidate(parts ...string) {
	prefix := Key(parts...)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key != prefix && !strings.HasPrefix(key, prefix+"/") {
			continue
		}
		invalidationsTotal.Inc()
		delete(c.entries, key)
	}
}

// SetNow overrides the clock; tests only.
func (c *Cache) SetNow(now func() time.Time) { c.now = now }
