// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package view turns session state into render instructions.
//
// Reconcile is a pure function: the same State and favorites always give the
// same Render, and nothing here performs I/O except LoadTrailer, which only
// ever adds a trailer to an open Detail.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/session"
)

// Placeholder posters for movies without artwork.
const (
	PlaceholderCardPoster   = "https://via.placeholder.com/600x900/333/ffffff?text=No+Image"
	PlaceholderDetailPoster = "https://via.placeholder.com/300x450/333/fff?text=No+Image"
)

// MessageNoMovies is shown in ModeEmpty.
const MessageNoMovies = "No movies found for your mood. Try a different description!"

// Mode selects what the presentation shows.
type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
	ModeResults
	ModeEmpty
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeResults:
		return "results"
	case ModeEmpty:
		return "empty"
	case ModeError:
		return "error"
	default:
		return "idle"
	}
}

// Render is one complete render instruction.
type Render struct {
	Mode  Mode
	Cards []Card

	// MoodLabel is "You seem <mood> <emoji>" for Results and Empty.
	MoodLabel   string
	Description string

	// Message is the error text in ModeError and the no-results hint in
	// ModeEmpty.
	Message  string
	Fallback bool

	// PaginationAvailable is true when the service returned at least as many
	// movies as were asked for, so more may exist.
	PaginationAvailable bool
}

// Reconcile builds the render instruction for s. favorites decides each
// card's favorited flag.
func Reconcile(s session.State, favorites []models.Movie) Render {
	switch s.Phase {
	case session.PhaseLoading:
		return Render{Mode: ModeLoading}
	case session.PhaseError:
		return Render{Mode: ModeError, Message: session.UserMessage(s.Err)}
	case session.PhaseSuccess:
	default:
		return Render{Mode: ModeIdle}
	}

	res := s.Result
	if res == nil {
		res = &models.RecommendationResult{Movies: s.Results}
	}

	r := Render{
		MoodLabel:   strings.TrimSpace(fmt.Sprintf("You seem %s %s", res.Mood, res.Emoji)),
		Description: describe(res),
		Fallback:    res.Fallback,
	}

	if len(s.Results) == 0 {
		r.Mode = ModeEmpty
		r.Message = MessageNoMovies
		return r
	}

	favSet := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		favSet[f.Key()] = struct{}{}
	}

	r.Mode = ModeResults
	r.Cards = make([]Card, len(s.Results))
	for i, m := range s.Results {
		_, fav := favSet[m.Key()]
		r.Cards[i] = NewCard(i+1, m, fav)
	}
	r.PaginationAvailable = res.Total() >= s.LastRequest.Limit
	return r
}

func describe(res *models.RecommendationResult) string {
	if res.Fallback {
		return fmt.Sprintf("Based on your input: %q • Showing curated recommendations (%d movies)", res.UserInput, res.Total())
	}
	return fmt.Sprintf("Based on your input: %q • Found %d movies from Hollywood & Bollywood", res.UserInput, res.Total())
}

// Card is one result entry.
type Card struct {
	// Index is 1-based, as typed in the terminal commands.
	Index     int
	Movie     models.Movie
	Favorited bool
	PosterURL string
	Stars     Stars
	Year      string
}

// NewCard builds the card for m at 1-based index.
func NewCard(index int, m models.Movie, favorited bool) Card {
	return Card{
		Index:     index,
		Movie:     m,
		Favorited: favorited,
		PosterURL: posterOr(m.PosterURL, PlaceholderCardPoster),
		Stars:     StarsFor(m.Rating),
		Year:      m.Year(),
	}
}

// FavoriteLabel is the label of the card's favorite toggle.
func (c Card) FavoriteLabel() string {
	if c.Favorited {
		return "★ Favorited"
	}
	return "❤ Favorite"
}

func posterOr(u, placeholder string) string {
	u = strings.TrimSpace(u)
	if u == "" || u == "null" {
		return placeholder
	}
	return u
}

// Stars is a five-star breakdown of a 0-10 rating.
type Stars struct {
	Full  int
	Half  bool
	Empty int
}

// StarsFor converts a 0-10 rating into five stars. Ratings outside the
// range are clamped.
func StarsFor(rating float64) Stars {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > 10 {
		rating = 10
	}

	full := int(rating / 2)
	half := math.Mod(rating, 2) >= 1
	empty := 5 - full
	if half {
		empty--
	}
	return Stars{Full: full, Half: half, Empty: empty}
}

// String renders the stars as text, e.g. "★★★★½".
func (s Stars) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("★", s.Full))
	if s.Half {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", s.Empty))
	return b.String()
}
