// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/cache"
	"github.com/tomtom215/moodflix/internal/catalog"
	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/metrics"
	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/mood"
	"github.com/tomtom215/moodflix/internal/upstream"
)

var (
	// ErrEmptyMood means the request had no mood text.
	ErrEmptyMood = errors.New("please enter how you are feeling")

	// ErrNoMovies means neither live search nor the catalog produced a movie.
	ErrNoMovies = errors.New("no movies found")

	// ErrMissingTitle means a trailer lookup had no title.
	ErrMissingTitle = errors.New("missing title")
)

// Searcher runs one live movie search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.Movie, error)
}

// TrailerFinder runs one trailer search. An empty ID means nothing matched.
type TrailerFinder interface {
	FindTrailer(ctx context.Context, title, year string) (string, error)
}

// Dependencies are the collaborators of an Engine. Movies and Trailers may
// be nil, in which case every answer comes from the catalog and no trailer
// is ever found.
type Dependencies struct {
	Detector *mood.Detector
	Catalog  *catalog.Catalog
	Movies   Searcher
	Trailers TrailerFinder
}

// Engine produces recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config

	detector *mood.Detector
	catalog  *catalog.Catalog
	movies   Searcher
	trailers TrailerFinder

	results     *cache.TTL[[]models.Movie]
	trailerHits *cache.TTL[string]

	// rng drives query and fallback shuffling; guarded by rngMu.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a recommendation engine.
func NewEngine(cfg *Config, deps Dependencies) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Detector == nil {
		return nil, errors.New("recommend: a mood detector is required")
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Engine{
		config:      cfg,
		detector:    deps.Detector,
		catalog:     deps.Catalog,
		movies:      deps.Movies,
		trailers:    deps.Trailers,
		results:     cache.New[[]models.Movie]("movie-search", cfg.CacheTTL),
		trailerHits: cache.New[string]("trailer-search", cfg.TrailerCacheTTL),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // shuffling only
	}, nil
}

// SearchCache returns the live search cache so its janitor can be supervised.
func (e *Engine) SearchCache() *cache.TTL[[]models.Movie] {
	return e.results
}

// TrailerCache returns the trailer cache so its janitor can be supervised.
func (e *Engine) TrailerCache() *cache.TTL[string] {
	return e.trailerHits
}

// ClampLimit maps a requested count onto [MinLimit, MaxLimit]; zero or
// less means the default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return models.DefaultLimit
	case limit > models.MaxLimit:
		return models.MaxLimit
	default:
		return limit
	}
}

// Recommend answers one recommendation request.
func (e *Engine) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error) {
	text := strings.TrimSpace(req.MoodText)
	if text == "" {
		return nil, ErrEmptyMood
	}
	pref, ok := models.ParsePreference(string(req.Preference))
	if !ok {
		pref = models.PreferenceMixed
	}
	target := ClampLimit(req.Limit)

	m, source := e.detector.Detect(text, strings.TrimSpace(req.Emoji))
	logger := logging.Ctx(ctx).With().
		Str("component", "recommend").
		Str("mood", string(m)).
		Str("mood_source", string(source)).
		Str("preference", string(pref)).
		Int("target", target).
		Logger()

	queries := Plan(m, pref, text, e.config.ShortInputWords)
	e.shuffle(len(queries), func(i, j int) { queries[i], queries[j] = queries[j], queries[i] })

	found, used := e.searchAll(ctx, logger, queries, target)

	movies := Dedupe(found)
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].Rating > movies[j].Rating })

	fallback := false
	if len(movies) >= target {
		movies = movies[:target]
	} else {
		fallback = true
		movies = e.topUp(m, movies, target)
	}

	if len(movies) == 0 {
		logger.Warn().Msg("No movies from search or catalog")
		return nil, ErrNoMovies
	}

	metrics.RecordRecommendation(string(m), fallback, len(movies))
	logger.Info().
		Int("movies", len(movies)).
		Bool("fallback", fallback).
		Strs("queries", used).
		Msg("Recommendation served")

	total := len(movies)
	return &models.RecommendationResult{
		Mood:        string(m),
		Emoji:       m.Emoji(),
		UserInput:   text,
		Fallback:    fallback,
		Movies:      movies,
		TotalMovies: &total,
		Preference:  pref,
		Queries:     used,
	}, nil
}

// searchAll runs queries in order until target movies were collected. Each
// query asks for at least MinQueryLimit movies.
func (e *Engine) searchAll(ctx context.Context, logger zerolog.Logger, queries []string, target int) ([]models.Movie, []string) {
	if e.movies == nil {
		return nil, []string{}
	}

	var found []models.Movie
	used := []string{}
	for _, q := range queries {
		if len(found) >= target {
			break
		}

		limit := max(e.config.MinQueryLimit, target-len(found))
		movies, err := e.search(ctx, q, limit)
		if err != nil {
			logger.Debug().Err(err).Str("query", q).Msg("Query failed")
			if stopSearching(ctx, err) {
				break
			}
			continue
		}
		if len(movies) == 0 {
			logger.Debug().Str("query", q).Msg("Query returned no movies")
			continue
		}
		found = append(found, movies...)
		used = append(used, q)
	}
	return found, used
}

// stopSearching reports whether further queries are pointless.
func stopSearching(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, upstream.ErrNoAPIKey) ||
		upstream.IsRejected(err)
}

func (e *Engine) search(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	key := SearchCacheKey(query, limit)
	if cached, ok := e.results.Get(key); ok {
		return cached, nil
	}

	movies, err := e.movies.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if e.config.CacheTTL > 0 {
		e.results.Set(key, movies)
	}
	return movies, nil
}

// SearchCacheKey is the cache key of one live search.
func SearchCacheKey(query string, limit int) string {
	return fmt.Sprintf("amr::%s::%d", strings.ToLower(query), limit)
}

// topUp appends shuffled catalog picks for m that are not already present
// until target is reached.
func (e *Engine) topUp(m mood.Mood, movies []models.Movie, target int) []models.Movie {
	picks := e.catalog.Fallback(string(m))
	e.shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })

	seen := make(map[string]struct{}, len(movies)+len(picks))
	for _, mv := range movies {
		seen[mv.Key()] = struct{}{}
	}
	for _, p := range picks {
		if len(movies) >= target {
			break
		}
		if _, dup := seen[p.Key()]; dup {
			continue
		}
		seen[p.Key()] = struct{}{}
		movies = append(movies, p)
	}
	return movies
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(n, swap)
}

// Dedupe keeps the first movie per identity, in order. Movies without an
// identity are dropped.
func Dedupe(movies []models.Movie) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	seen := make(map[string]struct{}, len(movies))
	for _, m := range movies {
		k := m.Key()
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Trailer finds the trailer for title. An empty ID with a nil error means no
// trailer; backend failures are logged and reported the same way.
func (e *Engine) Trailer(ctx context.Context, title, year string) (string, error) {
	title, year = strings.TrimSpace(title), strings.TrimSpace(year)
	if title == "" {
		return "", ErrMissingTitle
	}
	if e.trailers == nil {
		metrics.RecordTrailerLookup(false)
		return "", nil
	}

	key := strings.ToLower(upstream.TrailerQuery(title, year))
	if id, ok := e.trailerHits.Get(key); ok {
		metrics.RecordTrailerLookup(id != "")
		return id, nil
	}

	id, err := e.trailers.FindTrailer(ctx, title, year)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("title", title).Msg("Trailer lookup failed")
		metrics.RecordTrailerLookup(false)
		return "", nil
	}
	if e.config.TrailerCacheTTL > 0 {
		e.trailerHits.Set(key, id)
	}
	metrics.RecordTrailerLookup(id != "")
	return id, nil
}
