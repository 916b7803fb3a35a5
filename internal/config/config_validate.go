// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/moodflix/internal/logging"
)

const (
	minLimit = 1
	maxLimit = 20

	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var validPreferences = map[string]bool{
	"mixed":     true,
	"hollywood": true,
	"bollywood": true,
	"indian":    true,
}

var validFavoriteStores = map[string]bool{
	"badger": true,
	"memory": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClient(); err != nil {
		return err
	}
	if err := c.validateFavorites(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateClient() error {
	if err := validateHTTPURL(c.Client.BaseURL, "MOODFLIX_API_URL"); err != nil {
		return fmt.Errorf("MOODFLIX_API_URL is invalid: %w", err)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("MOODFLIX_TIMEOUT must be positive")
	}
	if !validPreferences[c.Client.DefaultPreference] {
		return fmt.Errorf("MOODFLIX_PREFERENCE must be one of: mixed, hollywood, bollywood, indian")
	}
	if c.Client.DefaultLimit < minLimit || c.Client.DefaultLimit > maxLimit {
		return fmt.Errorf("MOODFLIX_LIMIT must be between %d and %d", minLimit, maxLimit)
	}
	if c.Client.TrailerCacheTTL < 0 {
		return fmt.Errorf("MOODFLIX_TRAILER_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateFavorites() error {
	if !validFavoriteStores[c.Favorites.Store] {
		return fmt.Errorf("FAVORITES_STORE must be one of: badger, memory")
	}
	if c.Favorites.Store == "badger" && c.Favorites.Path == "" {
		return fmt.Errorf("FAVORITES_PATH is required when FAVORITES_STORE=badger")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if err := validateHTTPURL(c.Upstream.MoviesURL, "MOVIES_API_URL"); err != nil {
		return fmt.Errorf("MOVIES_API_URL is invalid: %w", err)
	}
	if err := validateHTTPURL(c.Upstream.YouTubeURL, "YOUTUBE_API_URL"); err != nil {
		return fmt.Errorf("YOUTUBE_API_URL is invalid: %w", err)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.Upstream.RequestsPerSecond <= 0 {
		return fmt.Errorf("UPSTREAM_RATE_PER_SEC must be positive")
	}
	if c.Upstream.Burst < 1 {
		return fmt.Errorf("UPSTREAM_RATE_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// HasUpstreamKey reports whether live search backends are configured.
func (c *Config) HasUpstreamKey() bool {
	return c.Upstream.RapidAPIKey != ""
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoggingOptions converts the logging section to logging.Config.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	if c.Logging.File != "" {
		cfg.Output = logging.NewRotatingFile(logging.FileConfig{
			Path:       c.Logging.File,
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAgeDays: c.Logging.MaxAgeDays,
			Compress:   c.Logging.Compress,
		})
	}
	return cfg
}
