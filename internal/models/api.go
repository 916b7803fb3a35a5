// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package models

// Recommendation limits.
const (
	MinLimit     = 1
	MaxLimit     = 20
	DefaultLimit = 10
)

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	MoodText   string     `json:"mood_text" validate:"notblank,max=500"`
	Preference Preference `json:"preference" validate:"preference"`
	Limit      int        `json:"limit" validate:"min=1,max=20"`
	Emoji      string     `json:"emoji,omitempty" validate:"omitempty,max=32"`
}

// RecommendationResult is the POST /recommend success body.
type RecommendationResult struct {
	Mood      string  `json:"mood"`
	Emoji     string  `json:"emoji"`
	UserInput string  `json:"user_input"`
	Fallback  bool    `json:"fallback,omitempty"`
	Movies    []Movie `json:"movies"`

	// TotalMovies is optional on the wire; nil or zero means "use len(Movies)".
	TotalMovies *int `json:"total_movies,omitempty"`

	Preference Preference `json:"preference,omitempty"`
	Queries    []string   `json:"queries,omitempty"`
}

// Total returns TotalMovies when present and positive, else len(Movies).
func (r *RecommendationResult) Total() int {
	if r.TotalMovies != nil && *r.TotalMovies > 0 {
		return *r.TotalMovies
	}
	return len(r.Movies)
}

// TrailerResponse is the GET /trailer body. VideoID is nil when no trailer
// was found.
type TrailerResponse struct {
	VideoID *string `json:"videoId"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream bool   `json:"upstream"`
	Version  string `json:"version,omitempty"`
}
