// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package session owns the client-side request state: what was last asked
// and what came back.
//
// The Controller holds one State and changes it only through the pure
// transitions in state.go. Every accepted submit gets a new sequence number
// and a response may only change the state if its number is still current,
// so when submits race the most recent one wins no matter which response
// lands first. Nothing is cancelled: a stale response is simply dropped.
//
// Presentation code subscribes to state changes and renders; it never
// mutates the state itself.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/emoji"
	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/metrics"
	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/validation"
)

// LoadMoreStep is how many extra movies each load-more asks for.
const LoadMoreStep = 6

// DefaultTimeout is the ceiling on a single recommendation call.
const DefaultTimeout = 15 * time.Second

// SurpriseSamples are the sentences Surprise picks from.
var SurpriseSamples = []string{
	"I feel happy and want Bollywood comedy",
	"I am bored and need an exciting thriller",
	"I feel romantic today",
	"I want something relaxing and calm",
	"I am angry and want action-packed movies",
}

// Recommender performs one recommendation call. *client.RecommendationClient
// implements it.
type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationResult, error)
}

// Picker chooses an index in [0,n).
type Picker interface {
	IntN(n int) int
}

type randPicker struct{}

func (randPicker) IntN(n int) int { return rand.IntN(n) }

// Option configures a Controller.
type Option func(*Controller)

// WithPicker replaces the random source used by Surprise.
func WithPicker(p Picker) Option {
	return func(c *Controller) { c.picker = p }
}

// WithTimeout sets the per-call ceiling. d <= 0 keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDefaults sets the initial preference and limit selection.
func WithDefaults(pref models.Preference, limit int) Option {
	return func(c *Controller) {
		if p, ok := models.ParsePreference(string(pref)); ok {
			c.preference = p
		}
		c.limit = clampLimit(limit)
	}
}

// Controller is the session state controller. Safe for concurrent use.
type Controller struct {
	rec     Recommender
	picker  Picker
	timeout time.Duration
	logger  zerolog.Logger

	mu         sync.Mutex
	state      State
	rev        uint64
	preference models.Preference
	limit      int

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int

	// deliverMu serializes deliveries so they stay in revision order.
	deliverMu sync.Mutex
	delivered uint64
}

// New creates a Controller in the Idle phase.
func New(rec Recommender, opts ...Option) *Controller {
	c := &Controller{
		rec:        rec,
		picker:     randPicker{},
		timeout:    DefaultTimeout,
		logger:     logging.WithComponent("session"),
		preference: models.PreferenceMixed,
		limit:      models.DefaultLimit,
		subs:       make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.LastRequest = Request{Preference: c.preference, Limit: c.limit}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selection returns the preference and limit new searches use.
func (c *Controller) Selection() (models.Preference, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preference, c.limit
}

// SetPreference changes the preference for new searches.
func (c *Controller) SetPreference(p models.Preference) error {
	parsed, ok := models.ParsePreference(string(p))
	if !ok {
		return &ValidationError{Message: "Unknown preference: " + string(p)}
	}
	c.mu.Lock()
	c.preference = parsed
	c.mu.Unlock()
	return nil
}

// SetLimit changes the limit for new searches, clamped to [1,20].
func (c *Controller) SetLimit(n int) int {
	n = clampLimit(n)
	c.mu.Lock()
	c.limit = n
	c.mu.Unlock()
	return n
}

// Subscribe registers fn to receive every state change. Deliveries are in
// transition order and never include a state older than one already
// delivered. fn runs on the goroutine that made the change and must not
// block. fn may call Subscribe or a cancel func, but a submit made from
// inside fn must run on another goroutine. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Submit validates req, makes it the last request, and performs one
// recommendation call. A zero Preference or Limit takes the current
// selection; an empty Emoji keeps the last picked emoji.
//
// Blank mood text returns a *ValidationError without any call. A call whose
// response is superseded by a newer submit returns ErrSuperseded and leaves
// the state alone. Otherwise the returned error is the call's error, if any,
// and the returned State is the state after the response was applied.
func (c *Controller) Submit(ctx context.Context, req Request) (State, error) {
	return c.submit(ctx, req, "submit")
}

// LoadMore re-issues the last request asking for LoadMoreStep more movies,
// up to 20. It is a no-op before the first accepted submit.
func (c *Controller) LoadMore(ctx context.Context) (State, error) {
	c.mu.Lock()
	last := c.state.LastRequest
	snapshot := c.state
	c.mu.Unlock()

	if last.MoodText == "" {
		return snapshot, nil
	}
	last.Limit = min(last.Limit+LoadMoreStep, models.MaxLimit)
	return c.submit(ctx, last, "load_more")
}

// EmojiPick records e on the last request and submits "I feel <label> <e>".
// An emoji outside the picker is still recorded, but the previous mood text
// is resubmitted unchanged, which fails validation when there is none.
func (c *Controller) EmojiPick(ctx context.Context, e string) (State, error) {
	c.mu.Lock()
	c.state = WithEmoji(c.state, e)
	text := c.state.LastRequest.MoodText
	c.mu.Unlock()

	if sentence, ok := emoji.Sentence(e); ok {
		text = sentence
	} else {
		c.logger.Debug().Str("emoji", e).Msg("Unmapped emoji, resubmitting previous mood text")
	}
	return c.submit(ctx, Request{MoodText: text, Emoji: e}, "emoji")
}

// Surprise submits one of SurpriseSamples chosen by the Picker.
func (c *Controller) Surprise(ctx context.Context) (State, error) {
	i := c.picker.IntN(len(SurpriseSamples))
	if i < 0 || i >= len(SurpriseSamples) {
		i = 0
	}
	return c.submit(ctx, Request{MoodText: SurpriseSamples[i]}, "surprise")
}

func (c *Controller) submit(ctx context.Context, req Request, trigger string) (State, error) {
	c.mu.Lock()
	req, verr := c.normalize(req)
	if verr != nil {
		c.state = Invalid(c.state, verr)
		snapshot, rev := c.commit()
		c.mu.Unlock()

		metrics.SessionOutcomes.WithLabelValues(outcome(verr)).Inc()
		c.publish(snapshot, rev)
		return snapshot, verr
	}

	c.state = Begin(c.state, req)
	seq := c.state.Seq
	snapshot, rev := c.commit()
	c.mu.Unlock()

	metrics.SessionSubmits.WithLabelValues(trigger).Inc()
	c.publish(snapshot, rev)

	logger := c.logger.With().Uint64("seq", seq).Str("trigger", trigger).Logger()
	logger.Debug().
		Str("preference", string(req.Preference)).
		Int("limit", req.Limit).
		Str("emoji", req.Emoji).
		Msg("Submitting recommendation request")

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.rec.Recommend(callCtx, req.toAPI())

	c.mu.Lock()
	var applied bool
	if err != nil {
		c.state, applied = Reject(c.state, seq, err)
	} else {
		c.state, applied = Resolve(c.state, seq, res)
	}
	if !applied {
		current := c.state.Seq
		snapshot = c.state
		c.mu.Unlock()

		metrics.SessionStaleResponses.Inc()
		logger.Debug().Uint64("current_seq", current).Msg("Discarding superseded response")
		return snapshot, ErrSuperseded
	}
	snapshot, rev = c.commit()
	c.mu.Unlock()

	metrics.SessionOutcomes.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		logger.Warn().Err(err).Msg("Recommendation request failed")
	} else {
		logger.Debug().Int("movies", len(res.Movies)).Bool("fallback", res.Fallback).Msg("Recommendation applied")
	}

	c.publish(snapshot, rev)
	return snapshot, err
}

// normalize must be called with mu held.
func (c *Controller) normalize(req Request) (Request, *ValidationError) {
	req.MoodText = strings.TrimSpace(req.MoodText)
	if req.MoodText == "" {
		return req, &ValidationError{Message: MessageEmptyMood}
	}

	if req.Preference == "" {
		req.Preference = c.preference
	}
	if req.Limit == 0 {
		req.Limit = c.limit
	}
	req.Limit = clampLimit(req.Limit)
	if req.Emoji == "" {
		req.Emoji = c.state.LastRequest.Emoji
	}

	apiReq := req.toAPI()
	if fieldErrs := validation.ValidateStruct(&apiReq); fieldErrs != nil {
		msg := fieldErrs.Error()
		if errs := fieldErrs.Errors(); len(errs) > 0 {
			msg = errs[0].Message
		}
		return req, &ValidationError{Message: msg, Err: fieldErrs}
	}
	return req, nil
}

// commit stamps a new revision for the current state. Must be called with
// mu held.
func (c *Controller) commit() (State, uint64) {
	c.rev++
	return c.state, c.rev
}

// publish delivers s unless a newer revision has already been delivered.
// Subscribers are called without subMu held.
func (c *Controller) publish(s State, rev uint64) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	if rev <= c.delivered {
		return
	}
	c.delivered = rev

	c.subMu.Lock()
	fns := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func clampLimit(n int) int {
	switch {
	case n < models.MinLimit:
		return models.DefaultLimit
	case n > models.MaxLimit:
		return models.MaxLimit
	default:
		return n
	}
}

// IsSuperseded reports whether err means the response was discarded.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
