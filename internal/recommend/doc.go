// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package recommend turns a mood description into a list of movies.
//
// # Pipeline
//
// A request flows through four stages:
//
//   - Mood detection: a recognized emoji wins, then explicit mood words,
//     then sentiment polarity (see package mood).
//   - Query plan: a handful of search phrases built from the mood and the
//     catalog preference (Hollywood, Bollywood or both), shuffled so equal
//     moods do not always hit the backend in the same order.
//   - Live search: queries run in order until the target count is reached.
//     Each query result is cached for CacheTTL under "amr::<query>::<limit>".
//     A missing API key or an open circuit breaker ends the search early.
//   - Assembly: hits are deduplicated by identity (ID, else title), sorted by
//     rating and cut to the target. A short list is topped up from the
//     curated catalog and the response is marked as fallback.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
//	    Detector: mood.NewDetector(scorer),
//	    Catalog:  catalog.Default(),
//	    Movies:   upstream.NewMoviesClient(moviesOpts),
//	    Trailers: upstream.NewYouTubeClient(youtubeOpts),
//	})
//
//	res, err := engine.Recommend(ctx, models.RecommendRequest{
//	    MoodText: "long week, need a laugh",
//	    Limit:    10,
//	})
//
// The engine is safe for concurrent use.
package recommend
