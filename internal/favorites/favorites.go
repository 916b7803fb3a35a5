// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package favorites keeps the user's favorited movies.
//
// The list is stored as a JSON array of movies under the single key
// "moodflix_favs", replaced wholesale on every change. Identity is the
// movie's id, falling back to its title. Favorites never fails loudly:
// unreadable or corrupt data reads as an empty list and write failures are
// logged, so a broken store can cost the user their favorites but never a
// recommendation.
package favorites

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/models"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "moodflix_favs"

// ToggleState is the membership of a movie after a toggle.
type ToggleState int

const (
	// Unfavorited means the movie was present and has been removed.
	Unfavorited ToggleState = iota
	// Favorited means the movie was absent and has been appended.
	Favorited
)

func (s ToggleState) String() string {
	if s == Favorited {
		return "favorited"
	}
	return "unfavorited"
}

// Favorites is the favorites adapter. Safe for concurrent use; the
// read-modify-write of a toggle happens under a single lock.
type Favorites struct {
	store  Store
	mu     sync.Mutex
	logger zerolog.Logger
}

// New creates a favorites adapter over store.
func New(store Store) *Favorites {
	return &Favorites{store: store, logger: logging.WithComponent("favorites")}
}

// List returns the favorites in insertion order.
func (f *Favorites) List(ctx context.Context) []models.Movie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(ctx)
}

// Contains reports whether a movie with m's identity is favorited.
func (f *Favorites) Contains(ctx context.Context, m models.Movie) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return indexOf(f.load(ctx), m.Key()) >= 0
}

// Toggle removes m if a movie with the same identity is present, otherwise
// appends it, and persists the result.
func (f *Favorites) Toggle(ctx context.Context, m models.Movie) ToggleState {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := f.load(ctx)
	state := Favorited
	if i := indexOf(list, m.Key()); i >= 0 {
		list = append(list[:i], list[i+1:]...)
		state = Unfavorited
	} else {
		list = append(list, m)
	}

	f.save(ctx, list)
	f.logger.Debug().Str("movie", m.Key()).Stringer("state", state).Int("count", len(list)).Msg("Favorite toggled")
	return state
}

// Clear removes every favorite.
func (f *Favorites) Clear(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.Delete(ctx, StorageKey); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to clear favorites")
	}
}

// load must be called with mu held.
func (f *Favorites) load(ctx context.Context) []models.Movie {
	data, err := f.store.Get(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		return []models.Movie{}
	}
	if err != nil {
		f.logger.Warn().Err(err).Msg("Failed to read favorites, treating as empty")
		return []models.Movie{}
	}

	var list []models.Movie
	if err := json.Unmarshal(data, &list); err != nil {
		f.logger.Warn().Err(err).Msg("Stored favorites are corrupt, treating as empty")
		return []models.Movie{}
	}
	if list == nil {
		list = []models.Movie{}
	}
	return list
}

// save must be called with mu held.
func (f *Favorites) save(ctx context.Context, list []models.Movie) {
	data, err := json.Marshal(list)
	if err != nil {
		f.logger.Warn().Err(err).Msg("Failed to encode favorites")
		return
	}
	if err := f.store.Set(ctx, StorageKey, data); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to persist favorites")
	}
}

func indexOf(list []models.Movie, key string) int {
	for i, m := range list {
		if m.Key() == key {
			return i
		}
	}
	return -1
}
