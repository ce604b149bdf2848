// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache[V any](ttl time.Duration, max int) (*Cache[V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[V](ttl, max)
	c.now = clock.Now
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache[string](time.Minute, 0)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists := c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache[int](time.Minute, 0)

	c.Set("key1", 1)
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	clock.Advance(61 * time.Second)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache[int](time.Hour, 0)

	c.SetWithTTL("short", 1, time.Second)
	c.Set("long", 2)

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default TTL entry should still exist")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache[string](time.Minute, 0)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Delete("key1")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
	c.Delete("missing")

	c.Clear()
	for _, key := range []string{"key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if stats := c.GetStats(); stats.TotalKeys != 0 || stats.Evictions != 3 {
		t.Errorf("stats = %+v, want TotalKeys 0 and Evictions 3", &stats)
	}
}

func TestCacheMaxEntries(t *testing.T) {
	t.Run("evicts the entry closest to expiry", func(t *testing.T) {
		c, clock := newTestCache[int](time.Minute, 2)

		c.Set("a", 1)
		clock.Advance(time.Second)
		c.Set("b", 2)
		clock.Advance(time.Second)
		c.Set("c", 3)

		if c.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", c.Len())
		}
		if _, ok := c.Get("a"); ok {
			t.Error("oldest entry should have been evicted")
		}
		if _, ok := c.Get("c"); !ok {
			t.Error("newest entry should be present")
		}
	})

	t.Run("prefers expired entries", func(t *testing.T) {
		c, clock := newTestCache[int](time.Minute, 2)

		c.SetWithTTL("old", 1, time.Second)
		c.Set("keep", 2)
		clock.Advance(2 * time.Second)
		c.Set("new", 3)

		if _, ok := c.Get("keep"); !ok {
			t.Error("live entry should survive when an expired one can go")
		}
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		c, _ := newTestCache[int](time.Minute, 2)

		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("a", 10)

		if v, _ := c.Get("a"); v != 10 {
			t.Errorf("Get(a) = %d, want 10", v)
		}
		if _, ok := c.Get("b"); !ok {
			t.Error("b should not have been evicted")
		}
	})
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache[int](time.Minute, 0)

	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("c", 3, time.Hour)
	clock.Advance(2 * time.Minute)

	if removed := c.Cleanup(); removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheRunStopsOnCancel(t *testing.T) {
	c := New[int](time.Millisecond, 0)
	c.Set("a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after background cleanup", c.Len())
	}
}

func TestCacheStats(t *testing.T) {
	c, _ := newTestCache[string](time.Minute, 0)

	c.Set("key1", "value1")
	c.Get("key1")
	c.Get("key1")
	c.Get("key2")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if rate := c.HitRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("HitRate() = %f, want ~66.67", rate)
	}
}

func TestCacheHitRateEmpty(t *testing.T) {
	c := New[int](time.Minute, 0)
	if rate := c.HitRate(); rate != 0 {
		t.Errorf("HitRate() = %f, want 0", rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%10)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d, exceeds max 50", c.Len())
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Genres []string
		Limit  int
	}

	k1 := GenerateKey("query", params{Genres: []string{"RPG"}, Limit: 10})
	k2 := GenerateKey("query", params{Genres: []string{"RPG"}, Limit: 10})
	k3 := GenerateKey("query", params{Genres: []string{"RPG"}, Limit: 20})
	k4 := GenerateKey("trending", params{Genres: []string{"RPG"}, Limit: 10})

	if k1 != k2 {
		t.Errorf("same params produced different keys: %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("different params produced the same key")
	}
	if k1 == k4 {
		t.Error("different methods produced the same key")
	}
	if !strings.HasPrefix(k1, "query:") {
		t.Errorf("key %q missing method prefix", k1)
	}
}
