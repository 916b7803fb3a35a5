// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package view

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tomtom215/moodflix/internal/client"
	"github.com/tomtom215/moodflix/internal/models"
)

// TrailerState is the trailer slot of a Detail.
type TrailerState int

const (
	TrailerPending TrailerState = iota
	TrailerFound
	TrailerAbsent
)

// TrailerLookup resolves a trailer. *client.TrailerClient implements it.
type TrailerLookup interface {
	Lookup(ctx context.Context, title, year string) client.Trailer
}

// Detail is the detail view of one movie.
type Detail struct {
	Movie     models.Movie
	PosterURL string
	Rating    string
	Released  string
	Overview  string

	// SearchURL and GoogleURL are always present, so the view is usable
	// without a trailer.
	SearchURL string
	GoogleURL string

	TrailerState TrailerState
	Trailer      client.Trailer
}

// NewDetail builds the detail view with the trailer still pending.
func NewDetail(m models.Movie) Detail {
	d := Detail{
		Movie:     m,
		PosterURL: posterOr(m.PosterURL, PlaceholderDetailPoster),
		Rating:    "N/A",
		Released:  m.ReleaseDate,
		Overview:  m.Overview,
		SearchURL: "https://www.youtube.com/results?search_query=" + url.QueryEscape(m.Title+" trailer"),
		GoogleURL: "https://www.google.com/search?q=" + url.QueryEscape(m.Title+" movie"),
	}
	if m.Rating > 0 {
		d.Rating = strconv.FormatFloat(m.Rating, 'f', -1, 64)
	}
	if d.Released == "" {
		d.Released = "Unknown"
	}
	if d.Overview == "" {
		d.Overview = "No overview available."
	}
	return d
}

// LoadTrailer looks up the trailer for d and returns d with the result.
// Only the trailer slot changes; an absent trailer is not an error.
func LoadTrailer(ctx context.Context, d Detail, lookup TrailerLookup) Detail {
	if lookup == nil {
		d.TrailerState = TrailerAbsent
		return d
	}
	t := lookup.Lookup(ctx, d.Movie.Title, d.Movie.Year())
	d.Trailer = t
	if t.Found {
		d.TrailerState = TrailerFound
	} else {
		d.TrailerState = TrailerAbsent
	}
	return d
}
