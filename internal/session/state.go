// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package session

import (
	"github.com/tomtom215/moodflix/internal/models"
)

// Phase is the request lifecycle of a State.
type Phase int

const (
	// PhaseIdle means nothing has been submitted yet.
	PhaseIdle Phase = iota
	// PhaseLoading means a recommendation call is in flight.
	PhaseLoading
	// PhaseSuccess means the latest call returned a result.
	PhaseSuccess
	// PhaseError means the latest submit failed validation or its call failed.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Request is the frozen parameter snapshot of one submit.
type Request struct {
	MoodText   string
	Preference models.Preference
	Limit      int
	Emoji      string
}

func (r Request) toAPI() models.RecommendRequest {
	return models.RecommendRequest{
		MoodText:   r.MoodText,
		Preference: r.Preference,
		Limit:      r.Limit,
		Emoji:      r.Emoji,
	}
}

// State is the session value. It is copied, never shared: transitions take
// a State and return a new one.
type State struct {
	// LastRequest is the most recent accepted request.
	LastRequest Request

	// Results are the movies of the most recent applied success.
	Results []models.Movie

	// Result is the full response behind Results, nil until the first success.
	Result *models.RecommendationResult

	Phase Phase

	// Err is set in PhaseError.
	Err error

	// Seq numbers accepted submits. Only a response tagged with the current
	// Seq may change the state.
	Seq uint64
}

// Begin freezes req as the last request and enters Loading under a new
// sequence number. Results of the previous call stay visible until the new
// call resolves.
func Begin(s State, req Request) State {
	s.LastRequest = req
	s.Seq++
	s.Phase = PhaseLoading
	s.Err = nil
	return s
}

// Resolve applies a successful response for call seq. It reports false,
// leaving s unchanged, when seq is not the current call.
func Resolve(s State, seq uint64, res *models.RecommendationResult) (State, bool) {
	if seq != s.Seq {
		return s, false
	}
	movies := res.Movies
	if movies == nil {
		movies = []models.Movie{}
	}
	s.Result = res
	s.Results = movies
	s.Phase = PhaseSuccess
	s.Err = nil
	return s, true
}

// Reject applies a failed response for call seq. It reports false, leaving
// s unchanged, when seq is not the current call.
func Reject(s State, seq uint64, err error) (State, bool) {
	if seq != s.Seq {
		return s, false
	}
	s.Phase = PhaseError
	s.Err = err
	return s, true
}

// Invalid records a validation failure. No call was made, so Seq and
// LastRequest stay as they were, and a call still in flight may replace
// the error when it resolves.
func Invalid(s State, err *ValidationError) State {
	s.Phase = PhaseError
	s.Err = err
	return s
}

// WithEmoji records the picked emoji on the last request.
func WithEmoji(s State, emoji string) State {
	s.LastRequest.Emoji = emoji
	return s
}
