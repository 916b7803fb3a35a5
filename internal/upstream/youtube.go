// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/metrics"
)

const youtubeBackend = "youtube"

// YouTubeClient finds official trailers through the YouTube v3.1 search API.
type YouTubeClient struct {
	transport *transport
	breaker   *Breaker[string]
	logger    zerolog.Logger
}

// NewYouTubeClient creates a trailer search client.
func NewYouTubeClient(o Options) *YouTubeClient {
	o = o.withDefaults()
	return &YouTubeClient{
		transport: newTransport(o),
		breaker:   NewBreaker[string]("youtube-api", o.Breaker),
		logger:    logging.WithComponent("upstream-youtube"),
	}
}

// TrailerQuery builds the search text for a trailer lookup.
func TrailerQuery(title, year string) string {
	return strings.TrimSpace(strings.TrimSpace(title) + " official trailer " + strings.TrimSpace(year))
}

// FindTrailer returns the video ID of the first hit, or "" when the search
// found nothing.
func (c *YouTubeClient) FindTrailer(ctx context.Context, title, year string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("%w: missing title", ErrNotCounted)
	}

	start := time.Now()
	id, err := c.breaker.Execute(func() (string, error) {
		return c.search(ctx, TrailerQuery(title, year))
	})
	metrics.RecordUpstreamCall(youtubeBackend, outcome(err), time.Since(start))
	if err != nil {
		c.logger.Warn().Err(err).Str("title", title).Msg("Trailer search failed")
		return "", err
	}
	return id, nil
}

func (c *YouTubeClient) search(ctx context.Context, q string) (string, error) {
	params := url.Values{
		"q":          {q},
		"part":       {"id,snippet"},
		"type":       {"video"},
		"maxResults": {"1"},
	}
	resp, err := c.transport.get(ctx, "/search", params)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode trailer search: %w", err)
	}
	if len(payload.Items) == 0 {
		return "", nil
	}
	return payload.Items[0].ID.VideoID, nil
}
