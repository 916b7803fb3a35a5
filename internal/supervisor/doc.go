// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

/*
Package supervisor runs the long-lived parts of the recommendation server
under a suture v4 supervisor tree.

	RootSupervisor ("moodflix")
	├── DataSupervisor ("data-layer")
	│   ├── cache-janitor-movie-search
	│   └── cache-janitor-trailer-search
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold is
exceeded. Supervisor events are logged through sutureslog into the slog
adapter of package logging, so they share the zerolog output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(engine.SearchCache())
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
*/
package supervisor
