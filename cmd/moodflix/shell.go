// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/tomtom215/moodflix/internal/emoji"
	"github.com/tomtom215/moodflix/internal/favorites"
	"github.com/tomtom215/moodflix/internal/logging"
	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/session"
	"github.com/tomtom215/moodflix/internal/view"
)

var (
	// errQuit ends the read loop.
	errQuit = errors.New("quit")

	errUnknownCommand = errors.New("unknown command")
	errMissingArg     = errors.New("missing argument")
	errBadIndex       = errors.New("no movie at that number")
)

// command is one parsed input line.
type command struct {
	name string
	arg  string
}

// commandHelp lists the commands in help order.
var commandHelp = []struct{ usage, text string }{
	{"find <text>", "describe your mood and get recommendations"},
	{"emoji <glyph>", "pick a mood emoji"},
	{"surprise", "try a random mood"},
	{"more", "load more movies when the last search may have more"},
	{"pref <p>", "set preference: mixed, hollywood, bollywood, indian"},
	{"limit <n>", "set how many movies to ask for (1-20)"},
	{"fav <n>", "toggle movie n in favorites"},
	{"favs", "list favorites"},
	{"details <n>", "show movie n with its trailer"},
	{"help", "show this help"},
	{"quit", "exit"},
}

var argCommands = map[string]bool{
	"find": true, "emoji": true, "pref": true, "limit": true, "fav": true, "details": true,
}

var bareCommands = map[string]bool{
	"surprise": true, "more": true, "favs": true, "help": true, "quit": true,
}

// parseCommand splits line into a command name and its argument. A line
// that does not start with a known command is treated as mood text.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, errUnknownCommand
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	switch {
	case name == "exit":
		return command{name: "quit"}, nil
	case bareCommands[name]:
		return command{name: name}, nil
	case argCommands[name]:
		if arg == "" {
			return command{}, fmt.Errorf("%s: %w", name, errMissingArg)
		}
		return command{name: name, arg: arg}, nil
	default:
		return command{name: "find", arg: line}, nil
	}
}

// shell is the terminal presentation adapter over a session controller.
type shell struct {
	ctrl     *session.Controller
	favs     *favorites.Favorites
	trailers view.TrailerLookup

	outMu sync.Mutex
	out   io.Writer

	wg sync.WaitGroup
}

func newShell(out io.Writer, ctrl *session.Controller, favs *favorites.Favorites, trailers view.TrailerLookup) *shell {
	return &shell{ctrl: ctrl, favs: favs, trailers: trailers, out: out}
}

// attach subscribes the renderer and returns the unsubscribe func.
func (s *shell) attach(ctx context.Context) func() {
	return s.ctrl.Subscribe(func(st session.State) {
		s.render(view.Reconcile(st, s.favs.List(ctx)))
	})
}

// dispatch runs cmd in the background so a slow call never blocks input.
func (s *shell) dispatch(ctx context.Context, cmd command) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.run(ctx, cmd); err != nil {
			s.printf("%s\n", err)
		}
	}()
}

// wait blocks until every dispatched command has returned.
func (s *shell) wait() {
	s.wg.Wait()
}

// run executes cmd synchronously. Session outcomes reach the terminal
// through the subscription, so submit errors are not returned.
func (s *shell) run(ctx context.Context, cmd command) error {
	var err error
	switch cmd.name {
	case "find":
		_, err = s.ctrl.Submit(ctx, session.Request{MoodText: cmd.arg})
	case "emoji":
		_, err = s.ctrl.EmojiPick(ctx, cmd.arg)
	case "surprise":
		_, err = s.ctrl.Surprise(ctx)
	case "more":
		st := s.ctrl.State()
		if st.LastRequest.MoodText == "" {
			s.printf("Nothing to load yet. Try: find <how you feel>\n")
			return nil
		}
		if !view.Reconcile(st, nil).PaginationAvailable {
			s.printf("No more movies for this mood.\n")
			return nil
		}
		_, err = s.ctrl.LoadMore(ctx)
	case "pref":
		if perr := s.ctrl.SetPreference(models.Preference(cmd.arg)); perr != nil {
			return perr
		}
		pref, _ := s.ctrl.Selection()
		s.printf("Preference: %s\n", pref)
		return nil
	case "limit":
		n, perr := strconv.Atoi(cmd.arg)
		if perr != nil {
			return fmt.Errorf("limit: %q is not a number", cmd.arg)
		}
		s.printf("Limit: %d\n", s.ctrl.SetLimit(n))
		return nil
	case "fav":
		return s.toggleFavorite(ctx, cmd.arg)
	case "favs":
		s.listFavorites(ctx)
		return nil
	case "details":
		return s.details(ctx, cmd.arg)
	case "help":
		s.help()
		return nil
	case "quit":
		return errQuit
	default:
		return errUnknownCommand
	}

	if err != nil && !session.IsSuperseded(err) {
		logging.Debug().Err(err).Str("command", cmd.name).Msg("Command finished with error")
	}
	return nil
}

// movieAt returns the 1-based result n of the current state.
func (s *shell) movieAt(arg string) (models.Movie, error) {
	n, err := strconv.Atoi(arg)
	results := s.ctrl.State().Results
	if err != nil || n < 1 || n > len(results) {
		return models.Movie{}, fmt.Errorf("%s: %w", arg, errBadIndex)
	}
	return results[n-1], nil
}

func (s *shell) toggleFavorite(ctx context.Context, arg string) error {
	m, err := s.movieAt(arg)
	if err != nil {
		return err
	}
	if s.favs.Toggle(ctx, m) == favorites.Favorited {
		s.printf("★ Added to favorites: %s\n", m.Title)
	} else {
		s.printf("Removed from favorites: %s\n", m.Title)
	}
	return nil
}

func (s *shell) listFavorites(ctx context.Context) {
	list := s.favs.List(ctx)
	if len(list) == 0 {
		s.printf("No favorites yet. Use: fav <n>\n")
		return
	}

	var b strings.Builder
	b.WriteString("Favorites:\n")
	for i, m := range list {
		fmt.Fprintf(&b, "  %d. %s", i+1, m.Title)
		if y := m.Year(); y != "" {
			fmt.Fprintf(&b, " (%s)", y)
		}
		b.WriteString("\n")
	}
	s.printf("%s", b.String())
}

func (s *shell) details(ctx context.Context, arg string) error {
	m, err := s.movieAt(arg)
	if err != nil {
		return err
	}

	d := view.NewDetail(m)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", d.Movie.Title)
	fmt.Fprintf(&b, "  Rating:   %s\n", d.Rating)
	fmt.Fprintf(&b, "  Released: %s\n", d.Released)
	fmt.Fprintf(&b, "  Poster:   %s\n", d.PosterURL)
	fmt.Fprintf(&b, "  %s\n", d.Overview)
	b.WriteString("  Loading trailer...\n")
	s.printf("%s", b.String())

	d = view.LoadTrailer(ctx, d, s.trailers)
	if d.TrailerState == view.TrailerFound {
		s.printf("  Trailer: %s\n", d.Trailer.WatchURL())
	} else {
		s.printf("  No trailer found. Search YouTube: %s\n", d.SearchURL)
	}
	s.printf("  Google: %s\n", d.GoogleURL)
	return nil
}

func (s *shell) help() {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, h := range commandHelp {
		fmt.Fprintf(&b, "  %-14s %s\n", h.usage, h.text)
	}
	b.WriteString("Moods:")
	for _, m := range emoji.All() {
		fmt.Fprintf(&b, " %s %s", m.Emoji, m.Label)
	}
	b.WriteString("\nAnything else is read as mood text.\n")
	s.printf("%s", b.String())
}

// render prints one render instruction.
func (s *shell) render(r view.Render) {
	var b strings.Builder
	switch r.Mode {
	case view.ModeIdle:
		return
	case view.ModeLoading:
		b.WriteString("Finding movies for your mood...\n")
	case view.ModeError:
		fmt.Fprintf(&b, "Error: %s\n", r.Message)
	case view.ModeEmpty:
		fmt.Fprintf(&b, "%s\n%s\n", r.MoodLabel, r.Message)
	case view.ModeResults:
		fmt.Fprintf(&b, "\n%s\n%s\n", r.MoodLabel, r.Description)
		for _, c := range r.Cards {
			fmt.Fprintf(&b, "  %2d. %s", c.Index, c.Movie.Title)
			if c.Year != "" {
				fmt.Fprintf(&b, " (%s)", c.Year)
			}
			fmt.Fprintf(&b, "  %s", c.Stars)
			if c.Favorited {
				b.WriteString("  ★")
			}
			b.WriteString("\n")
		}
		if r.PaginationAvailable {
			b.WriteString("Type 'more' for more movies.\n")
		}
	}
	s.printf("%s", b.String())
}

func (s *shell) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
