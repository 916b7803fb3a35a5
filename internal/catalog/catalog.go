// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package catalog holds the curated movies served when live search comes up
// short: eight hand-picked titles per mood plus a general pool.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodflix/internal/models"
)

// FallbackSize is the most movies Fallback returns.
const FallbackSize = 12

// DefaultMood is used for moods without a curated list.
const DefaultMood = "happy"

//go:embed fallback.json
var fallbackJSON []byte

type document struct {
	Moods   map[string][]models.Movie `json:"moods"`
	General []models.Movie            `json:"general"`
}

// Catalog is an immutable curated catalog.
type Catalog struct {
	moods   map[string][]models.Movie
	general []models.Movie
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Moods[DefaultMood]) == 0 {
		return nil, fmt.Errorf("catalog has no %q list", DefaultMood)
	}
	return &Catalog{moods: doc.Moods, general: doc.General}, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. It panics if the embedded document is
// broken, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(fallbackJSON)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// Fallback returns up to FallbackSize unique movies: the mood's list first,
// then the general pool. Unknown moods use the happy list. The result is a
// fresh slice each call.
func (c *Catalog) Fallback(mood string) []models.Movie {
	list, ok := c.moods[mood]
	if !ok {
		list = c.moods[DefaultMood]
	}

	picks := make([]models.Movie, 0, FallbackSize)
	seen := make(map[string]struct{}, FallbackSize)
	for _, src := range [][]models.Movie{list, c.general} {
		for _, m := range src {
			if len(picks) >= FallbackSize {
				return picks
			}
			if _, dup := seen[m.Key()]; dup {
				continue
			}
			seen[m.Key()] = struct{}{}
			picks = append(picks, m)
		}
	}
	return picks
}

// Moods lists the moods with a curated list.
func (c *Catalog) Moods() []string {
	out := make([]string, 0, len(c.moods))
	for m := range c.moods {
		out = append(out, m)
	}
	return out
}
