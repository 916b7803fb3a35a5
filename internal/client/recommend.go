// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package client talks to the MoodFlix recommendation service over HTTP.
//
// RecommendationClient issues POST /recommend and maps failures onto
// *ServiceError and *TransportError. TrailerClient issues GET /trailer and
// never fails: every problem resolves to an absent Trailer.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/validation"
)

// DefaultTimeout bounds a call when the caller's context has no deadline.
const DefaultTimeout = 15 * time.Second

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return nil
	}
	return body
}

// RecommendationClient calls POST /recommend.
type RecommendationClient struct {
	baseURL string
	client  *http.Client
}

// NewRecommendationClient creates a client for the service at baseURL.
// timeout <= 0 uses DefaultTimeout.
func NewRecommendationClient(baseURL string, timeout time.Duration) *RecommendationClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RecommendationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// NewRecommendationClientWithHTTP uses a caller-supplied http.Client.
func NewRecommendationClientWithHTTP(baseURL string, httpClient *http.Client) *RecommendationClient {
	return &RecommendationClient{baseURL: strings.TrimRight(baseURL, "/"), client: httpClient}
}

// Recommend performs exactly one POST /recommend. The request must have a
// non-blank mood text and a limit in [1,20]; violations return
// ErrInvalidRequest without any I/O. A successful result never holds more
// movies than req.Limit.
func (c *RecommendationClient) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error) {
	if req.Preference == "" {
		req.Preference = models.PreferenceMixed
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, verr.Error())
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Correlation-ID", id)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "POST /recommend", Err: err}
	}
	defer resp.Body.Close()

	logging.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("preference", string(req.Preference)).
		Int("limit", req.Limit).
		Msg("Recommendation response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{Status: resp.StatusCode, Message: errorMessage(readBodyForError(resp.Body))}
	}

	var result models.RecommendationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if ctx.Err() != nil {
			return nil, &TransportError{Op: "POST /recommend", Err: ctx.Err()}
		}
		return nil, &ServiceError{Status: resp.StatusCode, Err: err}
	}

	if len(result.Movies) > req.Limit {
		result.Movies = result.Movies[:req.Limit]
	}
	if result.Movies == nil {
		result.Movies = []models.Movie{}
	}
	return &result, nil
}

// errorMessage extracts the "error" field of an error body, if any.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var er models.ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return ""
	}
	return strings.TrimSpace(er.Error)
}
