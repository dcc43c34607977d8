package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(freshness, retention time.Duration) *ContentCache {
	return New(64, freshness, retention, slog.Default())
}

// countingFetch returns a FetchFunc that counts invocations and returns the
// current value of val.
func countingFetch(calls *atomic.Int32, val *atomic.Value) FetchFunc {
	return func(ctx context.Context) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(val.Load().(string)), nil
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("about", "about_title", "en"); got != "about/about_title/en" {
		t.Errorf("Key: got %q", got)
	}
}

func TestGet_FreshHitSkipsFetch(t *testing.T) {
	t.Parallel()

	c := newTestCache(time.Minute, time.Minute)
	var calls atomic.Int32
	var val atomic.Value
	val.Store(`"v1"`)
	fetch := countingFetch(&calls, &val)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		v, err := c.Get(ctx, "k", fetch)
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if string(v) != `"v1"` {
			t.Errorf("Get %d: got %s", i, v)
		}
	}

	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls: got %d, want 1 (fresh hits must not refetch)", n)
	}
}

func TestGet_MissErrorNotCached(t *testing.T) {
	t.Parallel()

	c := newTestCache(time.Minute, time.Minute)
	boom := errors.New("store down")
	fail := func(ctx context.Context) (json.RawMessage, error) { return nil, boom }

	// No retry: the error surfaces immediately.
	if _, err := c.Get(context.Background(), "k", fail); !errors.Is(err, boom) {
		t.Fatalf("Get: got %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed fetch must not cache anything, len=%d", c.Len())
	}

	// A later successful fetch populates normally.
	ok := func(ctx context.Context) (json.RawMessage, error) { return json.RawMessage(`"up"`), nil }
	v, err := c.Get(context.Background(), "k", ok)
	if err != nil || string(v) != `"up"` {
		t.Fatalf("Get after recovery: v=%s err=%v", v, err)
	}
}

func TestGet_StaleServedWhileRevalidating(t *testing.T) {
	t.Parallel()

	c := newTestCache(20*time.Millisecond, time.Minute)
	var calls atomic.Int32
	var val atomic.Value
	val.Store(`"old"`)
	fetch := countingFetch(&calls, &val)

	ctx := context.Background()
	if _, err := c.Get(ctx, "k", fetch); err != nil {
		t.Fatalf("prime: %v", err)
	}

	time.Sleep(40 * time.Millisecond) // now stale but retained
	val.Store(`"new"`)

	// Stale serve: old value immediately, refresh kicked off behind it.
	v, err := c.Get(ctx, "k", fetch)
	if err != nil {
		t.Fatalf("stale Get: %v", err)
	}
	if string(v) != `"old"` {
		t.Errorf("stale Get: got %s, want old value", v)
	}

	// Wait for the background revalidation to land.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err = c.Get(ctx, "k", fetch)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(v) == `"new"` {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("revalidated value never appeared; calls=%d", calls.Load())
}

func TestGet_ConcurrentMissesCollapse(t *testing.T) {
	t.Parallel()

	c := newTestCache(time.Minute, time.Minute)
	var calls atomic.Int32
	slow := func(ctx context.Context) (json.RawMessage, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return json.RawMessage(`"v"`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), "k", slow); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls: got %d, want 1 (singleflight)", n)
	}
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	c := newTestCache(time.Minute, time.Minute)
	var calls atomic.Int32
	var val atomic.Value
	val.Store(`"v"`)
	fetch := countingFetch(&calls, &val)

	ctx := context.Background()
	for _, key := range []string{Key("about", "title", "en"), Key("about", "title", "id"), Key("hero", "title", "en")} {
		if _, err := c.Get(ctx, key, fetch); err != nil {
			t.Fatalf("prime %s: %v", key, err)
		}
	}

	c.InvalidateDocument("about", "title")
	if c.Len() != 1 {
		t.Errorf("after InvalidateDocument: len=%d, want 1", c.Len())
	}

	c.InvalidateCollection("hero")
	if c.Len() != 0 {
		t.Errorf("after InvalidateCollection: len=%d, want 0", c.Len())
	}
}

func TestSweep_RefreshesStaleEntries(t *testing.T) {
	t.Parallel()

	c := newTestCache(20*time.Millisecond, time.Minute)
	var calls atomic.Int32
	var val atomic.Value
	val.Store(`"old"`)
	fetch := countingFetch(&calls, &val)

	ctx := context.Background()
	if _, err := c.Get(ctx, "k", fetch); err != nil {
		t.Fatalf("prime: %v", err)
	}

	time.Sleep(40 * time.Millisecond)
	val.Store(`"new"`)

	c.Sweep()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := c.Get(ctx, "k", fetch)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(v) == `"new"` {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("sweep never refreshed the stale entry")
}
