// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package cache provides a thread-safe in-memory TTL cache.
//
// The server caches upstream search results per query (six hours by
// default, matching the upstream quota window) and the terminal client
// caches trailer ids per title and year. Expired entries are dropped lazily
// on Get and eagerly by Serve, which is meant to run under the supervisor:
//
//	searches := cache.New[[]models.Movie]("search", 6*time.Hour)
//	tree.AddDataService(searches)
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/moodflix/internal/metrics"
)

// DefaultCleanupInterval is how often Serve sweeps expired entries.
const DefaultCleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Entries     int
	LastCleanup time.Time
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// TTL is a map with per-entry expiry.
type TTL[V any] struct {
	name     string
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]entry[V]
	stats   Stats
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	interval time.Duration
	now      func() time.Time
}

// WithCleanupInterval sets how often Serve sweeps expired entries.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a cache whose entries live for ttl. name labels the cache in
// metrics and supervisor events.
func New[V any](name string, ttl time.Duration, opts ...Option) *TTL[V] {
	o := options{interval: DefaultCleanupInterval, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[V]{
		name:     name,
		ttl:      ttl,
		interval: o.interval,
		now:      o.now,
		entries:  make(map[string]entry[V]),
		stats:    Stats{LastCleanup: o.now()},
	}
}

// Name returns the cache name.
func (c *TTL[V]) Name() string {
	return c.name
}

// Get returns the value stored under key if it has not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		c.stats.Evictions++
		c.updateSize()
		ok = false
	}
	if !ok {
		c.stats.Misses++
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}

	c.stats.Hits++
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *TTL[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key for ttl.
func (c *TTL[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.updateSize()
}

// Delete removes key.
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
		c.updateSize()
	}
}

// Clear removes every entry.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]entry[V])
	c.updateSize()
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *TTL[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Cleanup removes expired entries and returns how many were removed.
func (c *TTL[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	c.stats.LastCleanup = now
	c.updateSize()
	return removed
}

// Serve sweeps expired entries every cleanup interval until ctx is done.
// It satisfies suture.Service.
func (c *TTL[V]) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

// String names the service in supervisor logs.
func (c *TTL[V]) String() string {
	return "cache-janitor-" + c.name
}

// updateSize must be called with mu held.
func (c *TTL[V]) updateSize() {
	metrics.CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
}
