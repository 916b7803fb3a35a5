// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/moodflix/internal/cache"
	"github.com/tomtom215/moodflix/internal/client"
	"github.com/tomtom215/moodflix/internal/config"
	"github.com/tomtom215/moodflix/internal/favorites"
	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/session"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(clientLogging(cfg))

	store, closeStore, err := openStore(cfg.Favorites)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Favorites.Path).Msg("Failed to open favorites store")
	}
	defer closeStore()

	trailerCache := cache.New[client.Trailer]("client-trailers", cfg.Client.TrailerCacheTTL)
	trailers := client.NewTrailerClient(cfg.Client.BaseURL, cfg.Client.Timeout, client.WithTrailerCache(trailerCache))

	ctrl := session.New(
		client.NewRecommendationClient(cfg.Client.BaseURL, cfg.Client.Timeout),
		session.WithDefaults(models.Preference(cfg.Client.DefaultPreference), cfg.Client.DefaultLimit),
		session.WithTimeout(cfg.Client.Timeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := trailerCache.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn().Err(err).Msg("Trailer cache janitor stopped")
		}
	}()

	sh := newShell(os.Stdout, ctrl, favorites.New(store), trailers)
	unsubscribe := sh.attach(ctx)
	defer unsubscribe()

	logging.Debug().Str("service", cfg.Client.BaseURL).Str("favorites", cfg.Favorites.Store).Msg("MoodFlix client ready")
	fmt.Println("🎬 MoodFlix: tell me how you feel. Type 'help' for commands.")

	runShell(ctx, os.Stdin, sh)
}

// runShell reads commands until quit, EOF or a signal, then waits for the
// dispatched ones. Only a signal cancels ctx, so piped input still gets its
// answers.
func runShell(ctx context.Context, in io.Reader, sh *shell) {
	readLoop(ctx, in, sh)
	sh.wait()
}

// readLoop dispatches commands from in until quit, EOF or ctx is done.
func readLoop(ctx context.Context, in io.Reader, sh *shell) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logging.Error().Err(err).Msg("Failed to read input")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmd, err := parseCommand(line)
			if errors.Is(err, errUnknownCommand) {
				continue
			}
			if err != nil {
				sh.printf("%s. Type 'help' for commands.\n", err)
				continue
			}
			if cmd.name == "quit" {
				return
			}
			sh.dispatch(ctx, cmd)
		}
	}
}

// openStore opens the configured favorites store. The returned func
// releases it.
func openStore(cfg config.FavoritesConfig) (favorites.Store, func(), error) {
	if cfg.Store == "memory" {
		return favorites.NewMemoryStore(), func() {}, nil
	}

	store, err := favorites.OpenBadgerStore(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close favorites store")
		}
	}, nil
}

// clientLogging keeps stderr quiet while the prompt is in use. A log file
// gets the configured level unchanged.
func clientLogging(cfg *config.Config) logging.Config {
	opts := cfg.LoggingOptions()
	if cfg.Logging.File == "" && opts.Level == "info" {
		opts.Level = "warn"
		opts.Format = "console"
	}
	return opts
}
