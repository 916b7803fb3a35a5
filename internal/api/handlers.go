// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/recommend"
	"github.com/tomtom215/moodflix/internal/validation"
)

// Client-facing error messages.
const (
	MessageEmptyMood    = "Please enter how you are feeling"
	MessageNoMovies     = "No movies found. Please try again."
	MessageGeneric      = "Something went wrong. Please try again."
	MessageMissingTitle = "Missing title"
	MessageBadBody      = "Invalid request body"
)

// maxBodyBytes caps a POST /recommend body.
const maxBodyBytes = 64 * 1024

// Recommender is the service behind the handlers.
type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error)
	Trailer(ctx context.Context, title, year string) (string, error)
}

// HealthChecker reports whether live search is available.
type HealthChecker interface {
	Healthy() bool
}

// Handler serves the recommendation API.
type Handler struct {
	service Recommender
	health  HealthChecker
	version string
}

// NewHandler creates a handler. health may be nil.
func NewHandler(service Recommender, health HealthChecker, version string) *Handler {
	return &Handler{service: service, health: health, version: version}
}

// recommendBody is the loose wire form of models.RecommendRequest. limit may
// be a number, a numeric string, or missing.
type recommendBody struct {
	MoodText   string          `json:"mood_text"`
	Preference string          `json:"preference"`
	Limit      json.RawMessage `json:"limit"`
	Emoji      string          `json:"emoji"`
}

// Recommend handles POST /recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		respondError(w, r, http.StatusBadRequest, MessageBadBody, err)
		return
	}

	text := strings.TrimSpace(body.MoodText)
	if text == "" {
		respondError(w, r, http.StatusBadRequest, MessageEmptyMood, nil)
		return
	}

	pref, ok := models.ParsePreference(body.Preference)
	if !ok {
		pref = models.Preference(strings.ToLower(strings.TrimSpace(body.Preference)))
	}
	req := models.RecommendRequest{
		MoodText:   text,
		Preference: pref,
		Limit:      recommend.ClampLimit(parseLimit(body.Limit)),
		Emoji:      strings.TrimSpace(body.Emoji),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, verr.Errors()[0].Message, nil)
		return
	}

	res, err := h.service.Recommend(r.Context(), req)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, res)
	case errors.Is(err, recommend.ErrEmptyMood):
		respondError(w, r, http.StatusBadRequest, MessageEmptyMood, nil)
	case errors.Is(err, recommend.ErrNoMovies):
		respondError(w, r, http.StatusInternalServerError, MessageNoMovies, err)
	default:
		respondError(w, r, http.StatusInternalServerError, MessageGeneric, err)
	}
}

// Trailer handles GET /trailer?title=&year=. A lookup that finds nothing,
// for any reason, answers {"videoId": null}.
func (h *Handler) Trailer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := strings.TrimSpace(q.Get("title"))
	if title == "" {
		respondError(w, r, http.StatusBadRequest, MessageMissingTitle, nil)
		return
	}

	var resp models.TrailerResponse
	id, err := h.service.Trailer(r.Context(), title, strings.TrimSpace(q.Get("year")))
	if err == nil && id != "" {
		resp.VideoID = &id
	}
	respondJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	upstream := false
	if h.health != nil {
		upstream = h.health.Healthy()
	}
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Upstream: upstream,
		Version:  h.version,
	})
}

// parseLimit reads a limit sent as a JSON number or numeric string. Anything
// else, including a missing value, is 0.
func parseLimit(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
