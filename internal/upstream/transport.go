// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package upstream talks to the RapidAPI search backends: the AI Movie
// Recommender search endpoint and the YouTube v3.1 search endpoint.
//
// Every call is throttled by a token bucket, retried on HTTP 429 with
// exponential backoff (honoring Retry-After), and guarded by a per-backend
// circuit breaker so an unhealthy backend fails fast and the service can
// answer from its curated catalog instead.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for Options.
const (
	DefaultTimeout        = 15 * time.Second
	DefaultMaxRetries     = 2
	DefaultRetryBaseDelay = time.Second
	DefaultRatePerSecond  = 5
	DefaultBurst          = 5
)

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

var (
	// ErrNoAPIKey means the backend is not configured.
	ErrNoAPIKey = errors.New("upstream: no API key configured")

	// ErrRateLimited means the backend kept answering 429.
	ErrRateLimited = errors.New("upstream: rate limited")

	// ErrNotCounted marks failures caused by the caller, such as an empty
	// query. They do not count against the circuit breaker.
	ErrNotCounted = errors.New("upstream: caller error")
)

// StatusError is a non-2xx, non-429 answer.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.Status, e.Body)
}

// Options configures a backend client.
type Options struct {
	// BaseURL is the backend root, e.g. https://youtube-v31.p.rapidapi.com.
	BaseURL string
	// Host is sent as x-rapidapi-host.
	Host string
	// APIKey is sent as x-rapidapi-key.
	APIKey string

	Timeout        time.Duration
	RatePerSecond  float64
	Burst          int
	MaxRetries     int
	RetryBaseDelay time.Duration
	Breaker        BreakerSettings

	// HTTPClient replaces the default client built from Timeout.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.RatePerSecond <= 0 {
		o.RatePerSecond = DefaultRatePerSecond
	}
	if o.Burst <= 0 {
		o.Burst = DefaultBurst
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	return o
}

// transport performs authenticated, throttled GETs against one backend.
type transport struct {
	baseURL        string
	host           string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

func newTransport(o Options) *transport {
	return &transport{
		baseURL:        o.BaseURL,
		host:           o.Host,
		apiKey:         o.APIKey,
		client:         o.HTTPClient,
		limiter:        rate.NewLimiter(rate.Limit(o.RatePerSecond), o.Burst),
		maxRetries:     o.MaxRetries,
		retryBaseDelay: o.RetryBaseDelay,
	}
}

// get issues GET baseURL+path?params and decodes nothing: the caller owns
// the returned body. Non-2xx answers other than 429 become *StatusError.
func (t *transport) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if t.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	reqURL := t.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("x-rapidapi-host", t.host)
		req.Header.Set("x-rapidapi-key", t.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			if attempt == t.maxRetries {
				break
			}

			delay := t.retryBaseDelay * time.Duration(1<<uint(attempt))
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
					delay = time.Duration(secs) * time.Second
				}
			}

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			return nil, &StatusError{Status: resp.StatusCode, Body: body}
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w after %d retries (HTTP 429)", ErrRateLimited, t.maxRetries)
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize+1))
	if err != nil {
		return fmt.Sprintf("(failed to read body: %v)", err)
	}
	if len(body) > maxErrorBodySize {
		return string(body[:maxErrorBodySize]) + "\n... (truncated)"
	}
	return string(body)
}

// outcome labels a call for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsRejected(err):
		return "rejected"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
