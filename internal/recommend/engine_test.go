// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/moodflix/internal/catalog"
	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/mood"
	"github.com/tomtom215/moodflix/internal/upstream"
)

type fixedScorer float64

func (f fixedScorer) Polarity(string) float64 { return float64(f) }

// fakeSearcher answers every query through fn and records the calls.
type fakeSearcher struct {
	mu    sync.Mutex
	calls []string
	fn    func(query string, limit int) ([]models.Movie, error)
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]models.Movie, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s|%d", query, limit))
	f.mu.Unlock()
	return f.fn(query, limit)
}

func (f *fakeSearcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeFinder struct {
	mu    sync.Mutex
	calls int
	id    string
	err   error
}

func (f *fakeFinder) FindTrailer(context.Context, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.id, f.err
}

// movieSet returns n movies whose ids are prefixed with prefix; ratings
// ascend so the sort is observable.
func movieSet(prefix string, n int) []models.Movie {
	out := make([]models.Movie, n)
	for i := range out {
		out[i] = models.Movie{
			ID:     models.ID(fmt.Sprintf("%s-%d", prefix, i)),
			Title:  fmt.Sprintf("%s %d", prefix, i),
			Rating: float64(i) / 2,
		}
	}
	return out
}

func newTestEngine(t *testing.T, deps Dependencies) *Engine {
	t.Helper()
	if deps.Detector == nil {
		deps.Detector = mood.NewDetector(fixedScorer(0.5))
	}
	cfg := DefaultConfig()
	cfg.Seed = 7
	e, err := NewEngine(cfg, deps)
	require.NoError(t, err)
	return e
}

func TestPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mood  mood.Mood
		pref  models.Preference
		input string
		want  []string
	}{
		{
			name:  "mixed happy short input",
			mood:  mood.Happy,
			pref:  models.PreferenceMixed,
			input: "Need A Laugh",
			want: []string{
				"happy movies", "happy comedy movies", "happy romantic movies",
				"happy bollywood movies", "happy bollywood romantic movies",
				"happy movies need a laugh", "happy bollywood need a laugh",
			},
		},
		{
			name:  "hollywood energetic long input",
			mood:  mood.Excited,
			pref:  models.PreferenceHollywood,
			input: "I just got the job and want to celebrate tonight",
			want:  []string{"excited movies", "excited drama movies", "excited action movies"},
		},
		{
			name:  "indian sad",
			mood:  mood.Sad,
			pref:  models.PreferenceIndian,
			input: "rainy day",
			want:  []string{"sad bollywood movies", "sad bollywood romantic movies", "sad bollywood rainy day"},
		},
		{
			name:  "bollywood adventurous",
			mood:  mood.Adventurous,
			pref:  models.PreferenceBollywood,
			input: "a b c d e",
			want:  []string{"adventurous bollywood movies", "adventurous bollywood action movies"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Plan(tt.mood, tt.pref, tt.input, 4))
		})
	}
}

func TestRecommend_LiveResultsSortedAndCut(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(q string, limit int) ([]models.Movie, error) {
		return movieSet(q, limit), nil
	}}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "  so good  ", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, "happy", res.Mood)
	assert.Equal(t, mood.Happy.Emoji(), res.Emoji)
	assert.Equal(t, "so good", res.UserInput)
	assert.False(t, res.Fallback)
	assert.Equal(t, models.PreferenceMixed, res.Preference)
	require.Len(t, res.Movies, 5)
	assert.Equal(t, 5, res.Total())
	assert.Len(t, res.Queries, 1)
	assert.Equal(t, 1, s.count())
	assert.Contains(t, s.calls[0], "|5")

	for i := 1; i < len(res.Movies); i++ {
		assert.GreaterOrEqual(t, res.Movies[i-1].Rating, res.Movies[i].Rating)
	}
}

func TestRecommend_QueryLimitShrinksWithFloor(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(q string, _ int) ([]models.Movie, error) {
		return movieSet(q, 3), nil
	}}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "ok", Limit: 8})
	require.NoError(t, err)
	assert.Len(t, res.Movies, 8)
	assert.False(t, res.Fallback)

	require.Equal(t, 3, s.count())
	assert.True(t, strings.HasSuffix(s.calls[0], "|8"))
	assert.True(t, strings.HasSuffix(s.calls[1], "|5"))
	assert.True(t, strings.HasSuffix(s.calls[2], "|4"))
}

func TestRecommend_DedupesAndTopsUp(t *testing.T) {
	t.Parallel()

	same := movieSet("dup", 3)
	s := &fakeSearcher{fn: func(string, int) ([]models.Movie, error) { return same, nil }}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "fine", Limit: 6})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	require.Len(t, res.Movies, 6)

	keys := map[string]bool{}
	for _, m := range res.Movies {
		assert.False(t, keys[m.Key()], "duplicate %s", m.Key())
		keys[m.Key()] = true
	}
	for _, m := range same {
		assert.True(t, keys[m.Key()])
	}
	// Raw hits reach the target after two queries; dedupe happens afterwards.
	assert.Equal(t, 2, s.count())
}

func TestRecommend_NoAPIKeyGoesStraightToCatalog(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(string, int) ([]models.Movie, error) { return nil, upstream.ErrNoAPIKey }}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "meh", Emoji: "😢", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "sad", res.Mood)
	assert.True(t, res.Fallback)
	assert.Len(t, res.Movies, 10)
	assert.Empty(t, res.Queries)
	assert.Equal(t, 1, s.count())

	curated := map[string]bool{}
	for _, m := range catalog.Default().Fallback("sad") {
		curated[m.Key()] = true
	}
	for _, m := range res.Movies {
		assert.True(t, curated[m.Key()], "%s is not curated", m.Key())
	}
}

func TestRecommend_OpenBreakerStopsSearching(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(string, int) ([]models.Movie, error) {
		return nil, fmt.Errorf("movies: %w", gobreaker.ErrOpenState)
	}}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "x", Limit: 4})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, 1, s.count())
}

func TestRecommend_FailingQueriesAreSkipped(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(q string, limit int) ([]models.Movie, error) {
		if strings.Contains(q, "bollywood") {
			return nil, errors.New("boom")
		}
		return nil, nil
	}}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "whatever then", Limit: 3})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Len(t, res.Movies, 3)
	assert.Equal(t, 7, s.count())
}

func TestRecommend_CachesSearchResults(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(string, int) ([]models.Movie, error) { return []models.Movie{}, nil }}
	e := newTestEngine(t, Dependencies{Movies: s})
	req := models.RecommendRequest{MoodText: "two words", Preference: models.PreferenceHollywood, Limit: 5}

	_, err := e.Recommend(context.Background(), req)
	require.NoError(t, err)
	first := s.count()
	assert.Equal(t, 4, first)

	_, err = e.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, s.count())
	assert.Equal(t, 4, e.SearchCache().Len())

	_, ok := e.SearchCache().Get(SearchCacheKey("Happy Movies", 5))
	assert.True(t, ok)
}

func TestRecommend_LimitClamped(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{fn: func(q string, limit int) ([]models.Movie, error) {
		return movieSet(q, limit), nil
	}}
	e := newTestEngine(t, Dependencies{Movies: s})

	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "a", Limit: 50})
	require.NoError(t, err)
	assert.Len(t, res.Movies, models.MaxLimit)

	res, err = e.Recommend(context.Background(), models.RecommendRequest{MoodText: "b", Limit: 0})
	require.NoError(t, err)
	assert.Len(t, res.Movies, models.DefaultLimit)
}

func TestRecommend_NoSearcher(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Dependencies{})
	res, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "anything", Limit: 20})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Len(t, res.Movies, catalog.FallbackSize)
	assert.NotNil(t, res.Queries)
}

func TestRecommend_Errors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Dependencies{})
	_, err := e.Recommend(context.Background(), models.RecommendRequest{MoodText: "   "})
	assert.ErrorIs(t, err, ErrEmptyMood)

	cat, err := catalog.Parse([]byte(`{"moods":{"happy":[{"title":"A"}],"sad":[]}}`))
	require.NoError(t, err)
	e = newTestEngine(t, Dependencies{Catalog: cat})
	_, err = e.Recommend(context.Background(), models.RecommendRequest{MoodText: "x", Emoji: "😢"})
	assert.ErrorIs(t, err, ErrNoMovies)
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(nil, Dependencies{})
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.MinQueryLimit = 0
	_, err = NewEngine(cfg, Dependencies{Detector: mood.NewDetector(fixedScorer(0))})
	assert.Error(t, err)
}

func TestTrailer(t *testing.T) {
	t.Parallel()

	f := &fakeFinder{id: "abc123"}
	e := newTestEngine(t, Dependencies{Trailers: f})

	_, err := e.Trailer(context.Background(), "  ", "2010")
	assert.ErrorIs(t, err, ErrMissingTitle)

	id, err := e.Trailer(context.Background(), "Inception", "2010")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = e.Trailer(context.Background(), "inception ", "2010")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, 1, f.calls)
}

func TestTrailer_FailuresAreAbsentAndUncached(t *testing.T) {
	t.Parallel()

	f := &fakeFinder{err: errors.New("down")}
	e := newTestEngine(t, Dependencies{Trailers: f})

	for i := 0; i < 2; i++ {
		id, err := e.Trailer(context.Background(), "Up", "")
		require.NoError(t, err)
		assert.Empty(t, id)
	}
	assert.Equal(t, 2, f.calls)

	id, err := newTestEngine(t, Dependencies{}).Trailer(context.Background(), "Up", "")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	in := []models.Movie{
		{ID: "1", Title: "A"},
		{ID: "1", Title: "A again"},
		{Title: "B"},
		{Title: "B"},
		{},
		{ID: "2", Title: "B"},
	}
	out := Dedupe(in)
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "B", out[1].Title)
	assert.Equal(t, models.ID("2"), out[2].ID)
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.DefaultLimit, ClampLimit(0))
	assert.Equal(t, models.DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, models.MaxLimit, ClampLimit(21))
}
