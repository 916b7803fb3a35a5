// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/moodflix/internal/api"
	"github.com/tomtom215/moodflix/internal/catalog"
	"github.com/tomtom215/moodflix/internal/config"
	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/mood"
	"github.com/tomtom215/moodflix/internal/recommend"
	"github.com/tomtom215/moodflix/internal/supervisor"
	"github.com/tomtom215/moodflix/internal/upstream"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingOptions())

	logging.Info().
		Str("version", version).
		Str("addr", cfg.ListenAddr()).
		Bool("live_search", cfg.HasUpstreamKey()).
		Msg("Starting MoodFlix recommendation service")
	if !cfg.HasUpstreamKey() {
		logging.Warn().Msg("RAPIDAPI_KEY is not set; serving curated catalog picks only")
	}

	scorer, err := mood.NewSentimentScorer()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load sentiment model")
	}

	movies := upstream.NewMoviesClient(upstreamOptions(cfg, cfg.Upstream.MoviesURL, cfg.Upstream.MoviesHost))
	trailers := upstream.NewYouTubeClient(upstreamOptions(cfg, cfg.Upstream.YouTubeURL, cfg.Upstream.YouTubeHost))

	engineCfg := recommend.DefaultConfig()
	engineCfg.CacheTTL = cfg.Upstream.CacheTTL
	engine, err := recommend.NewEngine(engineCfg, recommend.Dependencies{
		Detector: mood.NewDetector(scorer),
		Catalog:  catalog.Default(),
		Movies:   movies,
		Trailers: trailers,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	router := api.NewRouter(
		api.NewHandler(engine, movies, version),
		api.NewMiddleware(&api.MiddlewareConfig{
			CORSAllowedOrigins: cfg.Security.CORSOrigins,
			CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-Correlation-ID"},
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.Security.RateLimitReqs,
			RateLimitWindow:    cfg.Security.RateLimitWindow,
			RateLimitDisabled:  cfg.Security.RateLimitDisabled,
		}),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDataService(engine.SearchCache())
	tree.AddDataService(engine.TrailerCache())
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
		if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
			logging.Warn().Int("count", len(report)).Msg("Services did not stop in time")
		}
		stop()
		os.Exit(1) //nolint:gocritic // stop() already ran
	}
	logging.Info().Msg("Server stopped")
}

func upstreamOptions(cfg *config.Config, baseURL, host string) upstream.Options {
	return upstream.Options{
		BaseURL:       baseURL,
		Host:          host,
		APIKey:        cfg.Upstream.RapidAPIKey,
		Timeout:       cfg.Upstream.Timeout,
		RatePerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:         cfg.Upstream.Burst,
		MaxRetries:    upstream.DefaultMaxRetries,
		Breaker:       upstream.DefaultBreakerSettings(),
	}
}
