// Package cache provides the cached-fetch primitive used by content reads:
// one generic policy (freshness window, retention window, no retry,
// stale-while-revalidate) instead of ad hoc per-call-site caching.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key from the backing store.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// entry is a cached value plus the fetcher that produced it, kept so sweeps
// and stale-serves can revalidate without the original caller.
type entry struct {
	value     json.RawMessage
	fetchedAt time.Time
	fetch     FetchFunc
}

// ContentCache caches fetched content values by key.
//
// Policy per entry:
//   - fresh (age <= freshness): served directly, no fetch.
//   - stale (freshness < age <= freshness+retention): served directly while a
//     background revalidation runs (stale-while-revalidate).
//   - expired: evicted by the LRU; the next Get fetches synchronously.
//
// Fetches are never retried: a failed fetch surfaces immediately so the
// caller can fall back to its default content. Concurrent fetches for the
// same key are collapsed into one (singleflight).
type ContentCache struct {
	lru       *expirable.LRU[string, *entry]
	group     singleflight.Group
	freshness time.Duration
	retention time.Duration
	log       *slog.Logger

	mu       sync.Mutex
	sweeping bool

	// refreshTimeout bounds background revalidations, which have no caller
	// to cancel them.
	refreshTimeout time.Duration
}

// New creates a ContentCache. Entries are evicted maxEntries-LRU style and
// expire after freshness+retention.
func New(maxEntries int, freshness, retention time.Duration, log *slog.Logger) *ContentCache {
	return &ContentCache{
		lru:            expirable.NewLRU[string, *entry](maxEntries, nil, freshness+retention),
		freshness:      freshness,
		retention:      retention,
		log:            log.With("component", "contentcache"),
		refreshTimeout: 10 * time.Second,
	}
}

// Key composes the deterministic cache key for a localized document view.
func Key(collection, docID, lang string) string {
	return collection + "/" + docID + "/" + lang
}

// Get returns the value for key, consulting the cache per the policy above.
// On a cache miss the fetch runs synchronously; its error is returned as-is
// with nothing cached.
func (c *ContentCache) Get(ctx context.Context, key string, fetch FetchFunc) (json.RawMessage, error) {
	if e, ok := c.lru.Get(key); ok {
		age := time.Since(e.fetchedAt)
		if age <= c.freshness {
			return e.value, nil
		}
		// Stale but retained: serve immediately, revalidate in the background.
		go c.refresh(key, e.fetch)
		return e.value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, &entry{value: value, fetchedAt: time.Now(), fetch: fetch})
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(json.RawMessage), nil
}

// refresh revalidates one key in the background. A failed refresh keeps the
// stale value; the error is only logged.
func (c *ContentCache) refresh(key string, fetch FetchFunc) {
	_, _, _ = c.group.Do("refresh:"+key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
		defer cancel()

		value, err := fetch(ctx)
		if err != nil {
			c.log.Warn("background revalidation failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		c.lru.Add(key, &entry{value: value, fetchedAt: time.Now(), fetch: fetch})
		return nil, nil
	})
}

// Invalidate drops one key.
func (c *ContentCache) Invalidate(collection, docID, lang string) {
	c.lru.Remove(Key(collection, docID, lang))
}

// InvalidateDocument drops every language view of a document.
func (c *ContentCache) InvalidateDocument(collection, docID string) {
	prefix := collection + "/" + docID + "/"
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

// InvalidateCollection drops every cached view of a collection.
func (c *ContentCache) InvalidateCollection(collection string) {
	prefix := collection + "/"
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

// Sweep revalidates every stale-but-retained entry. Wired to a cron schedule
// so content edited in the admin panel reaches long-open site tabs without a
// request having to pay for the refetch. Overlapping sweeps are skipped.
func (c *ContentCache) Sweep() {
	c.mu.Lock()
	if c.sweeping {
		c.mu.Unlock()
		return
	}
	c.sweeping = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sweeping = false
		c.mu.Unlock()
	}()

	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if time.Since(e.fetchedAt) > c.freshness {
			c.refresh(key, e.fetch)
		}
	}
}

// Len returns the number of cached entries.
func (c *ContentCache) Len() int {
	return c.lru.Len()
}
