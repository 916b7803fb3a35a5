// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package metrics defines the Prometheus metrics exported by MoodFlix.
//
// Server-side metrics cover the HTTP API, upstream search calls, circuit
// breakers, caches and fallback responses. Client-side metrics cover
// session submits and discarded stale responses; the terminal client does
// not expose them over HTTP but they remain available to tests and embedders
// through the default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodflix_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodflix_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream search metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_upstream_requests_total",
			Help: "Total number of upstream search calls by backend and outcome",
		},
		[]string{"backend", "outcome"}, // outcome: success, error, rejected, rate_limited, timeout
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodflix_upstream_request_duration_seconds",
			Help:    "Upstream search call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"backend"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodflix_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodflix_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodflix_cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache"},
	)

	// Recommendation metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_recommendations_total",
			Help: "Total number of recommendation responses by detected mood and source",
		},
		[]string{"mood", "source"}, // source: live, fallback
	)

	RecommendationMovies = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodflix_recommendation_movies",
			Help:    "Number of movies per recommendation response",
			Buckets: []float64{0, 1, 4, 8, 12, 16, 20},
		},
	)

	TrailerLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_trailer_lookups_total",
			Help: "Total number of trailer lookups by outcome",
		},
		[]string{"outcome"}, // found, absent
	)

	// Session metrics (terminal client)
	SessionSubmits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_session_submits_total",
			Help: "Total number of session submits by trigger",
		},
		[]string{"trigger"}, // submit, load_more, emoji, surprise
	)

	SessionStaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodflix_session_stale_responses_total",
			Help: "Total number of recommendation responses discarded because a newer submit superseded them",
		},
	)

	SessionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_session_outcomes_total",
			Help: "Total number of applied session outcomes by class",
		},
		[]string{"outcome"}, // success, validation_error, service_error, transport_error
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamCall records one call to a search backend.
func RecordUpstreamCall(backend, outcome string, duration time.Duration) {
	UpstreamRequests.WithLabelValues(backend, outcome).Inc()
	UpstreamDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordRecommendation records a served recommendation response.
func RecordRecommendation(mood string, fallback bool, movies int) {
	source := "live"
	if fallback {
		source = "fallback"
	}
	RecommendationsServed.WithLabelValues(mood, source).Inc()
	RecommendationMovies.Observe(float64(movies))
}

// RecordTrailerLookup records whether a trailer lookup found a video.
func RecordTrailerLookup(found bool) {
	if found {
		TrailerLookups.WithLabelValues("found").Inc()
		return
	}
	TrailerLookups.WithLabelValues("absent").Inc()
}
