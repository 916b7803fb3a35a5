// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/moodflix/internal/client"
	"github.com/tomtom215/moodflix/internal/models"
)

// fakeRecommender records every call and answers from respond.
type fakeRecommender struct {
	mu      sync.Mutex
	calls   []models.RecommendRequest
	respond func(req models.RecommendRequest) (*models.RecommendationResult, error)
}

func (f *fakeRecommender) Recommend(_ context.Context, req models.RecommendRequest) (*models.RecommendationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return resultFor(req.MoodText, 3), nil
	}
	return respond(req)
}

func (f *fakeRecommender) Calls() []models.RecommendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RecommendRequest(nil), f.calls...)
}

func resultFor(text string, n int) *models.RecommendationResult {
	movies := make([]models.Movie, n)
	for i := range movies {
		movies[i] = models.Movie{Title: text + " #" + string(rune('a'+i)), Rating: 7}
	}
	return &models.RecommendationResult{Mood: "happy", Emoji: "😊", UserInput: text, Movies: movies}
}

// gatedRecommender blocks each call until the test releases it.
type gatedRecommender struct {
	mu      sync.Mutex
	started chan string
	gates   map[string]chan struct{}
}

func newGatedRecommender() *gatedRecommender {
	return &gatedRecommender{started: make(chan string, 8), gates: make(map[string]chan struct{})}
}

func (g *gatedRecommender) gate(text string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[text]
	if !ok {
		ch = make(chan struct{})
		g.gates[text] = ch
	}
	return ch
}

func (g *gatedRecommender) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error) {
	gate := g.gate(req.MoodText)
	g.started <- req.MoodText
	select {
	case <-gate:
		return resultFor(req.MoodText, 2), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fixedPicker int

func (p fixedPicker) IntN(int) int { return int(p) }

type submitResult struct {
	state State
	err   error
}

func TestSubmit_SingleCallWithBoundedLimit(t *testing.T) {
	t.Parallel()

	for _, limit := range []int{-5, 0, 1, 10, 20, 21, 100} {
		rec := &fakeRecommender{}
		c := New(rec)

		_, err := c.Submit(context.Background(), Request{MoodText: "  cheerful  ", Limit: limit})
		require.NoError(t, err)

		calls := rec.Calls()
		require.Len(t, calls, 1, "limit %d", limit)
		assert.Equal(t, "cheerful", calls[0].MoodText)
		assert.GreaterOrEqual(t, calls[0].Limit, models.MinLimit)
		assert.LessOrEqual(t, calls[0].Limit, models.MaxLimit)
	}
}

func TestSubmit_AppliesResult(t *testing.T) {
	t.Parallel()
	c := New(&fakeRecommender{})

	s, err := c.Submit(context.Background(), Request{MoodText: "happy", Preference: models.PreferenceHollywood, Limit: 8})
	require.NoError(t, err)

	assert.Equal(t, PhaseSuccess, s.Phase)
	assert.Equal(t, uint64(1), s.Seq)
	assert.Len(t, s.Results, 3)
	assert.Equal(t, Request{MoodText: "happy", Preference: models.PreferenceHollywood, Limit: 8}, s.LastRequest)
	assert.Equal(t, s, c.State())
}

func TestSubmit_BlankTextIsValidationError(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\t\n"} {
		rec := &fakeRecommender{}
		c := New(rec)

		s, err := c.Submit(context.Background(), Request{MoodText: text})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MessageEmptyMood, UserMessage(err))
		assert.Equal(t, PhaseError, s.Phase)
		assert.Zero(t, s.Seq)
		assert.Empty(t, rec.Calls())
	}
}

func TestSubmit_ServiceErrorSurfaces(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{respond: func(models.RecommendRequest) (*models.RecommendationResult, error) {
		return nil, &client.ServiceError{Status: 500, Message: "No movies found. Please try again."}
	}}
	c := New(rec)

	s, err := c.Submit(context.Background(), Request{MoodText: "meh"})

	require.Error(t, err)
	assert.Equal(t, PhaseError, s.Phase)
	assert.Equal(t, "No movies found. Please try again.", UserMessage(s.Err))
}

func TestSubmit_ErrorKeepsPreviousResults(t *testing.T) {
	t.Parallel()
	fail := false
	rec := &fakeRecommender{respond: func(req models.RecommendRequest) (*models.RecommendationResult, error) {
		if fail {
			return nil, &client.TransportError{Op: "POST /recommend", Err: errors.New("refused")}
		}
		return resultFor(req.MoodText, 2), nil
	}}
	c := New(rec)

	_, err := c.Submit(context.Background(), Request{MoodText: "first"})
	require.NoError(t, err)

	fail = true
	s, err := c.Submit(context.Background(), Request{MoodText: "second"})
	require.Error(t, err)
	assert.Equal(t, PhaseError, s.Phase)
	assert.Equal(t, client.MessageTransport, UserMessage(s.Err))
	assert.Len(t, s.Results, 2)
	assert.Equal(t, "second", s.LastRequest.MoodText)
}

func TestSubmit_LastSubmitWins(t *testing.T) {
	t.Parallel()

	for _, order := range [][]string{{"A", "B"}, {"B", "A"}} {
		t.Run(order[0]+"_first", func(t *testing.T) {
			rec := newGatedRecommender()
			c := New(rec)

			results := make(map[string]chan submitResult)
			for _, text := range []string{"A", "B"} {
				ch := make(chan submitResult, 1)
				results[text] = ch
				go func() {
					s, err := c.Submit(context.Background(), Request{MoodText: text})
					ch <- submitResult{s, err}
				}()
				// Wait for the call to start so A is issued before B.
				require.Equal(t, text, <-rec.started)
			}

			for _, text := range order {
				close(rec.gate(text))
				waitFor(t, results[text])
			}

			final := c.State()
			assert.Equal(t, PhaseSuccess, final.Phase)
			assert.Equal(t, "B", final.LastRequest.MoodText)
			require.NotNil(t, final.Result)
			assert.Equal(t, "B", final.Result.UserInput)
		})
	}
}

// waitFor fails the test if ch does not deliver in time, and checks that a
// stale "A" response reports ErrSuperseded.
func waitFor(t *testing.T, ch chan submitResult) {
	t.Helper()
	select {
	case r := <-ch:
		if r.err != nil {
			assert.True(t, IsSuperseded(r.err))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not finish")
	}
}

func TestSubmit_StaleErrorDoesNotOverwrite(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	rec := &fakeRecommender{respond: func(req models.RecommendRequest) (*models.RecommendationResult, error) {
		if req.MoodText == "slow" {
			started <- struct{}{}
			<-release
			return nil, &client.ServiceError{Status: 500}
		}
		return resultFor(req.MoodText, 1), nil
	}}
	c := New(rec)

	slow := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), Request{MoodText: "slow"})
		slow <- err
	}()
	<-started

	_, err := c.Submit(context.Background(), Request{MoodText: "fast"})
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-slow, ErrSuperseded)
	s := c.State()
	assert.Equal(t, PhaseSuccess, s.Phase)
	assert.Equal(t, "fast", s.Result.UserInput)
}

func TestLoadMore_LimitProgression(t *testing.T) {
	t.Parallel()

	tests := []struct{ from, want int }{
		{10, 16},
		{18, 20},
		{20, 20},
		{1, 7},
		{14, 20},
	}
	for _, tt := range tests {
		rec := &fakeRecommender{}
		c := New(rec)
		_, err := c.Submit(context.Background(), Request{MoodText: "sad", Preference: models.PreferenceBollywood, Limit: tt.from, Emoji: "😢"})
		require.NoError(t, err)

		s, err := c.LoadMore(context.Background())
		require.NoError(t, err)

		calls := rec.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, tt.want, calls[1].Limit, "from %d", tt.from)
		assert.Equal(t, "sad", calls[1].MoodText)
		assert.Equal(t, models.PreferenceBollywood, calls[1].Preference)
		assert.Equal(t, "😢", calls[1].Emoji)
		assert.Equal(t, tt.want, s.LastRequest.Limit)
	}
}

func TestLoadMore_NoopWithoutSearch(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec)

	s, err := c.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Empty(t, rec.Calls())
}

func TestEmojiPick_Mapped(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec)

	s, err := c.EmojiPick(context.Background(), "😊")
	require.NoError(t, err)

	assert.Equal(t, "😊", s.LastRequest.Emoji)
	assert.Contains(t, s.LastRequest.MoodText, "happy")
	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "I feel happy 😊", calls[0].MoodText)
	assert.Equal(t, "😊", calls[0].Emoji)
}

func TestEmojiPick_UnmappedResubmitsPreviousText(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec)

	_, err := c.Submit(context.Background(), Request{MoodText: "rainy day"})
	require.NoError(t, err)

	s, err := c.EmojiPick(context.Background(), "🙂")
	require.NoError(t, err)

	assert.Equal(t, "🙂", s.LastRequest.Emoji)
	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "rainy day", calls[1].MoodText)
	assert.Equal(t, "🙂", calls[1].Emoji)
}

func TestEmojiPick_UnmappedWithoutTextFailsValidation(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec)

	s, err := c.EmojiPick(context.Background(), "🙂")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "🙂", s.LastRequest.Emoji)
	assert.Empty(t, rec.Calls())
}

func TestSubmit_EmojiIsSticky(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec)

	_, err := c.EmojiPick(context.Background(), "🤩")
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), Request{MoodText: "something else"})
	require.NoError(t, err)

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "🤩", calls[1].Emoji)
}

func TestSurprise_UsesPicker(t *testing.T) {
	t.Parallel()

	for i, sample := range SurpriseSamples {
		rec := &fakeRecommender{}
		c := New(rec, WithPicker(fixedPicker(i)))

		_, err := c.Surprise(context.Background())
		require.NoError(t, err)
		require.Len(t, rec.Calls(), 1)
		assert.Equal(t, sample, rec.Calls()[0].MoodText)
	}
}

func TestSurprise_OutOfRangePickerFallsBack(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec, WithPicker(fixedPicker(99)))

	_, err := c.Surprise(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SurpriseSamples[0], rec.Calls()[0].MoodText)
}

func TestSelection(t *testing.T) {
	t.Parallel()
	rec := &fakeRecommender{}
	c := New(rec, WithDefaults(models.PreferenceHollywood, 12))

	pref, limit := c.Selection()
	assert.Equal(t, models.PreferenceHollywood, pref)
	assert.Equal(t, 12, limit)

	require.NoError(t, c.SetPreference("Bollywood"))
	assert.Equal(t, 20, c.SetLimit(50))
	assert.Error(t, c.SetPreference("klingon"))

	_, err := c.Surprise(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.PreferenceBollywood, rec.Calls()[0].Preference)
	assert.Equal(t, 20, rec.Calls()[0].Limit)
}

func TestTimeoutBecomesError(t *testing.T) {
	t.Parallel()
	rec := newGatedRecommender()
	c := New(rec, WithTimeout(20*time.Millisecond))

	s, err := c.Submit(context.Background(), Request{MoodText: "never"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, PhaseError, s.Phase)
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	t.Parallel()
	c := New(&fakeRecommender{})

	var mu sync.Mutex
	var phases []Phase
	cancel := c.Subscribe(func(s State) {
		mu.Lock()
		phases = append(phases, s.Phase)
		mu.Unlock()
	})

	_, err := c.Submit(context.Background(), Request{MoodText: "ok"})
	require.NoError(t, err)
	_, _ = c.Submit(context.Background(), Request{MoodText: " "})

	cancel()
	_, err = c.Submit(context.Background(), Request{MoodText: "unseen"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Phase{PhaseLoading, PhaseSuccess, PhaseError}, phases)
}

func TestTransitions_Pure(t *testing.T) {
	t.Parallel()

	s := Begin(State{}, Request{MoodText: "x", Limit: 10})
	assert.Equal(t, uint64(1), s.Seq)
	assert.Equal(t, PhaseLoading, s.Phase)

	stale, ok := Resolve(s, 0, resultFor("old", 1))
	assert.False(t, ok)
	assert.Equal(t, s, stale)

	done, ok := Resolve(s, 1, &models.RecommendationResult{})
	assert.True(t, ok)
	assert.NotNil(t, done.Results)
	assert.Empty(t, done.Results)

	_, ok = Reject(done, 7, errors.New("late"))
	assert.False(t, ok)

	assert.Equal(t, "🚀", WithEmoji(done, "🚀").LastRequest.Emoji)
	assert.Equal(t, "loading", PhaseLoading.String())
}

func TestSubmit_ValidationErrorDuringCallIsReplacedByResponse(t *testing.T) {
	t.Parallel()

	rec := newGatedRecommender()
	c := New(rec)

	done := make(chan submitResult, 1)
	go func() {
		s, err := c.Submit(context.Background(), Request{MoodText: "A"})
		done <- submitResult{s, err}
	}()
	require.Equal(t, "A", <-rec.started)

	_, err := c.Submit(context.Background(), Request{MoodText: "  "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, PhaseError, c.State().Phase)

	// A blank submit is not accepted, so the pending call still owns Seq.
	close(rec.gate("A"))
	select {
	case r := <-done:
		require.NoError(t, r.err)
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not finish")
	}

	final := c.State()
	assert.Equal(t, PhaseSuccess, final.Phase)
	assert.NoError(t, final.Err)
	assert.Len(t, final.Results, 2)
	assert.Equal(t, "A", final.LastRequest.MoodText)
}

func TestSubscribe_CallbackMaySubscribeAndCancel(t *testing.T) {
	t.Parallel()
	c := New(&fakeRecommender{})

	var mu sync.Mutex
	var firstCalls int
	var later []Phase

	var cancelFirst func()
	cancelFirst = c.Subscribe(func(State) {
		mu.Lock()
		firstCalls++
		mu.Unlock()
		cancelFirst()
		c.Subscribe(func(s State) {
			mu.Lock()
			later = append(later, s.Phase)
			mu.Unlock()
		})
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), Request{MoodText: "ok"})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("submit deadlocked inside a subscriber")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, []Phase{PhaseSuccess}, later)
}
