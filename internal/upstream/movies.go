// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/metrics"
	"github.com/tomtom215/moodflix/internal/models"
)

// Movie normalization constants.
const (
	TMDBImageBase      = "https://image.tmdb.org/t/p/w500"
	MaxOverviewLength  = 500
	DefaultOverview    = "No overview available"
	DefaultReleaseDate = "Unknown"
)

const moviesBackend = "movies"

// MoviesClient searches the AI Movie Recommender API.
type MoviesClient struct {
	transport *transport
	breaker   *Breaker[[]models.Movie]
	logger    zerolog.Logger
}

// NewMoviesClient creates a movie search client.
func NewMoviesClient(o Options) *MoviesClient {
	o = o.withDefaults()
	return &MoviesClient{
		transport: newTransport(o),
		breaker:   NewBreaker[[]models.Movie]("movies-api", o.Breaker),
		logger:    logging.WithComponent("upstream-movies"),
	}
}

// Configured reports whether the client has an API key.
func (c *MoviesClient) Configured() bool {
	return c.transport.apiKey != ""
}

// Healthy reports whether the circuit breaker currently lets calls through.
func (c *MoviesClient) Healthy() bool {
	return c.Configured() && !c.breaker.Open()
}

// Search runs query and returns at most limit normalized movies.
func (c *MoviesClient) Search(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrNotCounted)
	}

	start := time.Now()
	movies, err := c.breaker.Execute(func() ([]models.Movie, error) {
		return c.search(ctx, query)
	})
	metrics.RecordUpstreamCall(moviesBackend, outcome(err), time.Since(start))
	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("Movie search failed")
		return nil, err
	}

	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}

func (c *MoviesClient) search(ctx context.Context, query string) ([]models.Movie, error) {
	resp, err := c.transport.get(ctx, "/api/search", url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Movies []rawMovie `json:"movies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode movie search: %w", err)
	}

	out := make([]models.Movie, 0, len(payload.Movies))
	for _, rm := range payload.Movies {
		if m, ok := rm.normalize(); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// rawMovie is one search hit. The backend is loose about field names and
// types, so most fields accept strings, numbers or null.
type rawMovie struct {
	ID           models.ID  `json:"id"`
	Title        flexString `json:"title"`
	Name         flexString `json:"name"`
	Overview     *string    `json:"overview"`
	VoteAverage  flexFloat  `json:"vote_average"`
	PosterPath   flexString `json:"poster_path"`
	BackdropPath flexString `json:"backdrop_path"`
	PosterURL    flexString `json:"poster_url"`
	Poster       flexString `json:"poster"`
	Image        flexString `json:"image"`
	ReleaseDate  flexString `json:"release_date"`
	Year         flexString `json:"year"`
}

// normalize maps a hit onto models.Movie. Hits with neither id nor title
// are dropped.
func (r rawMovie) normalize() (models.Movie, bool) {
	title := string(r.Title)
	if title == "" {
		title = string(r.Name)
	}
	if title == "" && r.ID == "" {
		return models.Movie{}, false
	}

	overview := DefaultOverview
	if r.Overview != nil {
		overview = *r.Overview
	}
	overview = TruncateOverview(overview)

	release := string(r.ReleaseDate)
	if release == "" {
		release = string(r.Year)
	}
	if release == "" {
		release = DefaultReleaseDate
	}

	return models.Movie{
		ID:          r.ID,
		Title:       title,
		Overview:    overview,
		Rating:      RoundRating(float64(r.VoteAverage)),
		ReleaseDate: release,
		PosterURL:   r.posterURL(),
	}, true
}

func (r rawMovie) posterURL() string {
	if p := string(r.PosterPath); p != "" {
		return tmdbURL(p)
	}
	if p := string(r.BackdropPath); p != "" {
		return tmdbURL(p)
	}

	raw := string(r.PosterURL)
	if raw == "" {
		raw = string(r.Poster)
	}
	if raw == "" {
		raw = string(r.Image)
	}
	switch {
	case strings.HasPrefix(raw, "/"):
		return TMDBImageBase + raw
	case strings.HasPrefix(raw, "http"):
		return raw
	default:
		return ""
	}
}

func tmdbURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return TMDBImageBase + path
}

// TruncateOverview cuts overviews longer than MaxOverviewLength characters
// and marks the cut with "...".
func TruncateOverview(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxOverviewLength {
		return s
	}
	return string(runes[:MaxOverviewLength]) + "..."
}

// RoundRating rounds a rating to one decimal, treating NaN as 0.
func RoundRating(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Round(r*10) / 10
}

// flexString decodes a JSON string or number; null and other kinds decode
// to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*f = flexString(data)
	default:
		*f = ""
	}
	return nil
}

// flexFloat decodes a JSON number or numeric string; anything else is 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}
