// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/recommend"
)

type fakeService struct {
	mu      sync.Mutex
	lastReq models.RecommendRequest
	calls   int
	res     *models.RecommendationResult
	err     error

	trailerID  string
	trailerErr error
}

func (f *fakeService) Recommend(_ context.Context, req models.RecommendRequest) (*models.RecommendationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	return f.res, f.err
}

func (f *fakeService) Trailer(_ context.Context, title, _ string) (string, error) {
	if title == "" {
		return "", recommend.ErrMissingTitle
	}
	return f.trailerID, f.trailerErr
}

type fixedHealth bool

func (f fixedHealth) Healthy() bool { return bool(f) }

func newTestRouter(svc *fakeService, mw *MiddlewareConfig) http.Handler {
	if mw == nil {
		mw = DefaultMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	return NewRouter(NewHandler(svc, fixedHealth(true), "test"), NewMiddleware(mw)).Setup()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRecommend_Success(t *testing.T) {
	t.Parallel()

	total := 1
	svc := &fakeService{res: &models.RecommendationResult{
		Mood:        "happy",
		Emoji:       "😊",
		UserInput:   "great day",
		Movies:      []models.Movie{{ID: "1", Title: "Up", Rating: 8.3}},
		TotalMovies: &total,
		Preference:  models.PreferenceMixed,
		Queries:     []string{"happy movies"},
	}}
	h := newTestRouter(svc, nil)

	rec := do(t, h, http.MethodPost, "/recommend", `{"mood_text":" great day ","preference":"Hollywood","limit":"12","emoji":"😊"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got models.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "happy", got.Mood)
	require.Len(t, got.Movies, 1)
	assert.Equal(t, 1, got.Total())

	assert.Equal(t, "great day", svc.lastReq.MoodText)
	assert.Equal(t, models.PreferenceHollywood, svc.lastReq.Preference)
	assert.Equal(t, 12, svc.lastReq.Limit)
	assert.Equal(t, "😊", svc.lastReq.Emoji)
}

func TestRecommend_LimitHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit string
		want  int
	}{
		{"missing", ``, models.DefaultLimit},
		{"garbage", `,"limit":"lots"`, models.DefaultLimit},
		{"too big", `,"limit":99`, models.MaxLimit},
		{"negative", `,"limit":-4`, models.DefaultLimit},
		{"float", `,"limit":7.0`, 7},
		{"null", `,"limit":null`, models.DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeService{res: &models.RecommendationResult{Movies: []models.Movie{}}}
			rec := do(t, newTestRouter(svc, nil), http.MethodPost, "/recommend", `{"mood_text":"ok"`+tt.limit+`}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, svc.lastReq.Limit)
		})
	}
}

func TestRecommend_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty text", `{"mood_text":"   "}`, MessageEmptyMood},
		{"missing text", `{}`, MessageEmptyMood},
		{"malformed", `{"mood_text":`, MessageBadBody},
		{"unknown preference", `{"mood_text":"ok","preference":"anime"}`, ""},
		{"text too long", `{"mood_text":"` + strings.Repeat("a", 501) + `"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeService{}
			rec := do(t, newTestRouter(svc, nil), http.MethodPost, "/recommend", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			msg := decodeError(t, rec)
			if tt.message != "" {
				assert.Equal(t, tt.message, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
			assert.Zero(t, svc.calls)
		})
	}
}

func TestRecommend_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err     error
		status  int
		message string
	}{
		{recommend.ErrNoMovies, http.StatusInternalServerError, MessageNoMovies},
		{recommend.ErrEmptyMood, http.StatusBadRequest, MessageEmptyMood},
		{errors.New("kaboom"), http.StatusInternalServerError, MessageGeneric},
	}
	for _, tt := range tests {
		svc := &fakeService{err: tt.err}
		rec := do(t, newTestRouter(svc, nil), http.MethodPost, "/recommend", `{"mood_text":"hi"}`)
		assert.Equal(t, tt.status, rec.Code)
		assert.Equal(t, tt.message, decodeError(t, rec))
		assert.NotContains(t, rec.Body.String(), "kaboom")
	}
}

func TestTrailer(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakeService{trailerID: "vid42"}, nil)
	rec := do(t, h, http.MethodGet, "/trailer?title=Inception&year=2010", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"videoId":"vid42"}`, rec.Body.String())

	h = newTestRouter(&fakeService{}, nil)
	rec = do(t, h, http.MethodGet, "/trailer?title=Nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"videoId":null}`, rec.Body.String())

	h = newTestRouter(&fakeService{trailerErr: errors.New("down"), trailerID: "ignored"}, nil)
	rec = do(t, h, http.MethodGet, "/trailer?title=Up", "")
	assert.JSONEq(t, `{"videoId":null}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/trailer?title=%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MessageMissingTitle, decodeError(t, rec))
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakeService{}, nil)
	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","upstream":true,"version":"test"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouting_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakeService{}, nil)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/recommend", "").Code)
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakeService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakeService{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/recommend", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Minute
	h := newTestRouter(&fakeService{trailerID: "x"}, cfg)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/trailer?title=A", "").Code)
	rec := do(t, h, http.MethodGet, "/trailer?title=A", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec))

	// health is outside the limited group
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, parseLimit(json.RawMessage(`5`)))
	assert.Equal(t, 5, parseLimit(json.RawMessage(`" 5 "`)))
	assert.Zero(t, parseLimit(nil))
	assert.Zero(t, parseLimit(json.RawMessage(`true`)))
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `a\x0ab`, sanitizeLogValue("a\nb"))
}
