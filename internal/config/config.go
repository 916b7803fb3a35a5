// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package config loads MoodFlix configuration for both binaries.
//
// Values are layered with Koanf v2: built-in defaults, then an optional YAML
// file, then environment variables. See LoadWithKoanf.
package config

import "time"

// Config is the complete configuration shared by cmd/server and cmd/moodflix.
// Each binary reads only the sections it needs.
type Config struct {
	Client    ClientConfig    `koanf:"client"`
	Favorites FavoritesConfig `koanf:"favorites"`
	Server    ServerConfig    `koanf:"server"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ClientConfig configures the terminal client's connection to the
// recommendation service.
type ClientConfig struct {
	// BaseURL is the root of the recommendation service, e.g. http://localhost:5000.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds every recommendation and trailer call.
	Timeout time.Duration `koanf:"timeout"`

	// DefaultPreference seeds the session: mixed, hollywood, bollywood or indian.
	DefaultPreference string `koanf:"default_preference"`

	// DefaultLimit seeds the session page size (1-20).
	DefaultLimit int `koanf:"default_limit"`

	// TrailerCacheTTL is how long a resolved trailer id is reused.
	TrailerCacheTTL time.Duration `koanf:"trailer_cache_ttl"`
}

// FavoritesConfig selects the favorites backing store.
type FavoritesConfig struct {
	// Store is "badger" (durable, default) or "memory".
	Store string `koanf:"store"`

	// Path is the Badger directory when Store is "badger".
	Path string `koanf:"path"`
}

// ServerConfig holds HTTP listener settings for cmd/server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// UpstreamConfig configures the RapidAPI search backends used by cmd/server.
type UpstreamConfig struct {
	// RapidAPIKey authenticates both backends. When empty the server answers
	// every request from the curated fallback catalog.
	RapidAPIKey string `koanf:"rapidapi_key"`

	MoviesURL   string `koanf:"movies_url"`
	MoviesHost  string `koanf:"movies_host"`
	YouTubeURL  string `koanf:"youtube_url"`
	YouTubeHost string `koanf:"youtube_host"`

	Timeout time.Duration `koanf:"timeout"`

	// CacheTTL is how long a search query's results are reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RequestsPerSecond throttles outgoing calls per backend.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// SecurityConfig holds CORS and rate limiting settings for the HTTP API.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`

	// File, when set, sends logs to a rotating file instead of stderr.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}
