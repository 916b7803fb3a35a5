// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodflix/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:           "http://localhost:5000",
			Timeout:           15 * time.Second,
			DefaultPreference: "mixed",
			DefaultLimit:      10,
			TrailerCacheTTL:   time.Hour,
		},
		Favorites: FavoritesConfig{
			Store: "badger",
			Path:  defaultFavoritesPath(),
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			MoviesURL:         "https://ai-movie-recommender.p.rapidapi.com",
			MoviesHost:        "ai-movie-recommender.p.rapidapi.com",
			YouTubeURL:        "https://youtube-v31.p.rapidapi.com",
			YouTubeHost:       "youtube-v31.p.rapidapi.com",
			Timeout:           15 * time.Second,
			CacheTTL:          6 * time.Hour,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultFavoritesPath places the Badger directory under the user's data
// directory, falling back to the working directory.
func defaultFavoritesPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "moodflix", "favorites")
	}
	return filepath.Join(".moodflix", "favorites")
}

// LoadWithKoanf loads configuration from, in increasing priority:
//  1. built-in defaults
//  2. an optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables listed in envTransformFunc
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unlisted variables are ignored so the process environment cannot leak
// into configuration.
var envMappings = map[string]string{
	// Terminal client
	"moodflix_api_url":           "client.base_url",
	"moodflix_timeout":           "client.timeout",
	"moodflix_preference":        "client.default_preference",
	"moodflix_limit":             "client.default_limit",
	"moodflix_trailer_cache_ttl": "client.trailer_cache_ttl",

	// Favorites
	"favorites_store": "favorites.store",
	"favorites_path":  "favorites.path",

	// HTTP server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"port":                  "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Upstream search backends
	"rapidapi_key":          "upstream.rapidapi_key",
	"movies_api_url":        "upstream.movies_url",
	"movies_api_host":       "upstream.movies_host",
	"youtube_api_url":       "upstream.youtube_url",
	"youtube_api_host":      "upstream.youtube_host",
	"upstream_timeout":      "upstream.timeout",
	"upstream_cache_ttl":    "upstream.cache_ttl",
	"upstream_rate_per_sec": "upstream.requests_per_second",
	"upstream_rate_burst":   "upstream.burst",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
	"log_file":   "logging.file",
}

// envTransformFunc maps an environment variable name to its koanf path, or ""
// to skip it.
//
//   - RAPIDAPI_KEY -> upstream.rapidapi_key
//   - MOODFLIX_API_URL -> client.base_url
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
