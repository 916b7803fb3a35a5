// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/cache"
	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/metrics"
	"github.com/tomtom215/moodflix/internal/models"
)

// DefaultTrailerCacheTTL is how long a lookup result is reused.
const DefaultTrailerCacheTTL = time.Hour

// Trailer is the outcome of a lookup: Found with a video id, or absent.
type Trailer struct {
	VideoID string
	Found   bool
}

// WatchURL returns the YouTube watch URL, or "" when absent.
func (t Trailer) WatchURL() string {
	if !t.Found {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(t.VideoID)
}

// EmbedURL returns the YouTube embed URL, or "" when absent.
func (t Trailer) EmbedURL() string {
	if !t.Found {
		return ""
	}
	return "https://www.youtube.com/embed/" + url.PathEscape(t.VideoID)
}

// TrailerClient calls GET /trailer. Lookups never fail; any transport,
// status, or decode problem yields an absent Trailer and a debug log line.
type TrailerClient struct {
	baseURL string
	client  *http.Client
	cache   *cache.TTL[Trailer]
	logger  zerolog.Logger
}

// TrailerOption configures a TrailerClient.
type TrailerOption func(*TrailerClient)

// WithTrailerCache replaces the default lookup cache. A nil cache disables
// caching.
func WithTrailerCache(c *cache.TTL[Trailer]) TrailerOption {
	return func(tc *TrailerClient) { tc.cache = c }
}

// WithTrailerHTTPClient replaces the default http.Client.
func WithTrailerHTTPClient(hc *http.Client) TrailerOption {
	return func(tc *TrailerClient) { tc.client = hc }
}

// NewTrailerClient creates a trailer client for the service at baseURL.
func NewTrailerClient(baseURL string, timeout time.Duration, opts ...TrailerOption) *TrailerClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tc := &TrailerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New[Trailer]("trailer", DefaultTrailerCacheTTL),
		logger:  logging.WithComponent("trailer-client"),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Cache returns the lookup cache, or nil when caching is disabled.
func (c *TrailerClient) Cache() *cache.TTL[Trailer] {
	return c.cache
}

// Lookup finds the trailer for title and year. year may be empty.
func (c *TrailerClient) Lookup(ctx context.Context, title, year string) Trailer {
	title = strings.TrimSpace(title)
	year = strings.TrimSpace(year)
	if title == "" {
		return Trailer{}
	}

	key := strings.ToLower(title) + "::" + year
	if c.cache != nil {
		if t, ok := c.cache.Get(key); ok {
			return t
		}
	}

	t, ok := c.fetch(ctx, title, year)
	metrics.RecordTrailerLookup(t.Found)
	// Failed fetches are not cached so a transient outage does not stick.
	if ok && c.cache != nil {
		c.cache.Set(key, t)
	}
	return t
}

// fetch reports ok=false when the service could not answer.
func (c *TrailerClient) fetch(ctx context.Context, title, year string) (Trailer, bool) {
	q := url.Values{}
	q.Set("title", title)
	if year != "" {
		q.Set("year", year)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trailer?"+q.Encode(), http.NoBody)
	if err != nil {
		c.logger.Debug().Err(err).Str("title", title).Msg("Failed to create trailer request")
		return Trailer{}, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("title", title).Msg("Trailer lookup failed")
		return Trailer{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("title", title).
			Str("body", string(readBodyForError(resp.Body))).
			Msg("Trailer lookup returned non-200")
		return Trailer{}, false
	}

	var tr models.TrailerResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		c.logger.Debug().Err(err).Str("title", title).Msg("Trailer response did not decode")
		return Trailer{}, false
	}

	if tr.VideoID == nil || strings.TrimSpace(*tr.VideoID) == "" {
		return Trailer{}, true
	}
	return Trailer{VideoID: *tr.VideoID, Found: true}, true
}
