// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := New[string]("test-basic", time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}

	c.Set("amr::happy movies::8", "cached")
	got, ok := c.Get("amr::happy movies::8")
	if !ok || got != "cached" {
		t.Errorf("Get() = (%q, %v), want (cached, true)", got, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats = %+v, want 1 hit and 1 miss", stats)
	}
	if stats.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", stats.HitRate())
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New[int]("test-expiry", 6*time.Hour, WithClock(clock.Now))

	c.Set("k", 1)
	clock.Advance(6*time.Hour - time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry still present after its TTL")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New[string]("test-setttl", time.Hour, WithClock(clock.Now))

	c.SetWithTTL("short", "a", time.Minute)
	c.Set("long", "b")
	clock.Advance(2 * time.Minute)

	if _, ok := c.Get("short"); ok {
		t.Error("short entry survived its custom TTL")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long entry expired early")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := New[int]("test-clear", time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	c.Delete("nope")
	if c.Len() != 2 {
		t.Errorf("Len() after Delete = %d, want 2", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if got := c.Stats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New[int]("test-cleanup", time.Minute, WithClock(clock.Now))
	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.Advance(30 * time.Second)
	c.Set("fresh", 3)
	clock.Advance(45 * time.Second)

	if removed := c.Cleanup(); removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if !c.Stats().LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", c.Stats().LastCleanup, clock.Now())
	}
}

func TestCacheServe(t *testing.T) {
	t.Parallel()

	c := New[int]("test-serve", time.Millisecond, WithCleanupInterval(5*time.Millisecond))
	c.Set("k", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 0 {
		t.Error("Serve did not sweep the expired entry")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c := New[int]("test-concurrency", time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Cleanup()
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestCacheString(t *testing.T) {
	t.Parallel()

	c := New[int]("search", time.Minute)
	if got := c.String(); got != "cache-janitor-search" {
		t.Errorf("String() = %q, want cache-janitor-search", got)
	}
	if got := c.Name(); got != "search" {
		t.Errorf("Name() = %q, want search", got)
	}
}
