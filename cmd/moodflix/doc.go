// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

/*
Command moodflix is the interactive terminal client of the recommendation
service.

Each line read from stdin is one command. Commands run in the background,
and every state change of the session is printed by a subscribed renderer,
so a slow search never blocks typing. A line that is not a command is
searched as mood text.

	find <text>     describe your mood
	emoji <glyph>   pick a mood emoji, e.g. emoji 😢
	surprise        try a random mood
	more            ask for more movies for the last mood
	pref <p>        mixed, hollywood, bollywood or indian
	limit <n>       page size, 1-20
	fav <n>         toggle result n in favorites
	favs            list favorites
	details <n>     show result n with its trailer
	help, quit

# Configuration

	MOODFLIX_API_URL   base URL of the service (default http://localhost:5000)
	FAVORITES_STORE    badger (default) or memory
	FAVORITES_PATH     Badger directory for favorites
	LOG_LEVEL          info is lowered to warn unless LOG_FILE is set
	LOG_FILE           rotating log file instead of stderr
*/
package main
