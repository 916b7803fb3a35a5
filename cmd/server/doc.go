// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

/*
Command server runs the MoodFlix recommendation service.

# Endpoints

	POST /recommend   {"mood_text", "preference", "limit", "emoji"} -> recommendations
	GET  /trailer     ?title=&year= -> {"videoId": "..." | null}
	GET  /health      liveness and live-search availability
	GET  /metrics     Prometheus metrics

# Process Layout

	RootSupervisor ("moodflix")
	├── DataSupervisor ("data-layer")
	│   ├── cache-janitor-movie-search
	│   └── cache-janitor-trailer-search
	└── APISupervisor ("api-layer")
	    └── HTTP Server

# Configuration

Settings come from built-in defaults, then config.yaml (or CONFIG_PATH),
then environment variables:

	RAPIDAPI_KEY         key for both search backends; unset means catalog-only answers
	HTTP_HOST, HTTP_PORT listener (default 0.0.0.0:5000)
	CORS_ORIGINS         comma-separated allowed origins (default *)
	RATE_LIMIT_REQUESTS  requests per RATE_LIMIT_WINDOW per client IP
	LOG_LEVEL, LOG_FORMAT

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server stops
accepting connections and drains in-flight requests within the configured
shutdown timeout.
*/
package main
