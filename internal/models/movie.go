// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package models holds the wire types shared by the recommendation service,
// its HTTP client and the terminal session.
package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ID is a movie identifier. Upstream search results carry numeric ids while
// curated entries use strings like "f_h_1", so ID accepts either on decode
// and always encodes as a string.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("movie id must be a string or number: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

// Movie is one recommendation.
type Movie struct {
	ID          ID      `json:"id,omitempty"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	Rating      float64 `json:"rating"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
}

// Key returns the movie's identity: its id when present, else its title.
// Favorites and de-duplication both compare on Key.
func (m Movie) Key() string {
	if m.ID != "" {
		return string(m.ID)
	}
	return m.Title
}

// Year returns the first four characters of the release date, or "" when
// the release date is shorter than a year.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	y := m.ReleaseDate[:4]
	if _, err := strconv.Atoi(y); err != nil {
		return ""
	}
	return y
}

// Preference narrows the catalog a recommendation draws from.
type Preference string

// Preferences accepted by the recommendation service. PreferenceIndian is
// the legacy spelling of PreferenceBollywood.
const (
	PreferenceMixed     Preference = "mixed"
	PreferenceHollywood Preference = "hollywood"
	PreferenceBollywood Preference = "bollywood"
	PreferenceIndian    Preference = "indian"
)

// ParsePreference maps free-form input to a Preference. Unknown values
// return false.
func ParsePreference(s string) (Preference, bool) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferenceMixed, PreferenceHollywood, PreferenceBollywood, PreferenceIndian:
		return p, true
	case "":
		return PreferenceMixed, true
	}
	return "", false
}

// IncludesHollywood reports whether the preference draws from Hollywood titles.
func (p Preference) IncludesHollywood() bool {
	return p == PreferenceMixed || p == PreferenceHollywood || p == ""
}

// IncludesBollywood reports whether the preference draws from Bollywood titles.
func (p Preference) IncludesBollywood() bool {
	return p == PreferenceMixed || p == PreferenceBollywood || p == PreferenceIndian || p == ""
}
