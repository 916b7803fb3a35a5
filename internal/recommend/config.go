// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package recommend

import (
	"fmt"
	"time"
)

// Config contains the tunables of the recommendation engine.
type Config struct {
	// CacheTTL is how long a live search result is reused. Zero disables
	// result caching.
	CacheTTL time.Duration `json:"cache_ttl"`

	// TrailerCacheTTL is how long a found trailer is reused. Zero disables
	// trailer caching.
	TrailerCacheTTL time.Duration `json:"trailer_cache_ttl"`

	// MinQueryLimit is the smallest page size requested from the backend.
	MinQueryLimit int `json:"min_query_limit"`

	// ShortInputWords is the longest input, in words, that is appended to
	// the search phrases verbatim.
	ShortInputWords int `json:"short_input_words"`

	// Seed makes query and fallback shuffling reproducible. Zero seeds from
	// the clock.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheTTL:        6 * time.Hour,
		TrailerCacheTTL: 24 * time.Hour,
		MinQueryLimit:   4,
		ShortInputWords: 4,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be non-negative, got %s", c.CacheTTL)
	}
	if c.TrailerCacheTTL < 0 {
		return fmt.Errorf("trailer_cache_ttl must be non-negative, got %s", c.TrailerCacheTTL)
	}
	if c.MinQueryLimit < 1 {
		return fmt.Errorf("min_query_limit must be at least 1, got %d", c.MinQueryLimit)
	}
	if c.ShortInputWords < 0 {
		return fmt.Errorf("short_input_words must be non-negative, got %d", c.ShortInputWords)
	}
	return nil
}
