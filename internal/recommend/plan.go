// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package recommend

import (
	"strings"

	"github.com/tomtom215/moodflix/internal/models"
	"github.com/tomtom215/moodflix/internal/mood"
)

// Plan returns the search phrases for mood m, unshuffled. Inputs of at most
// shortWords words are also searched verbatim, lower-cased.
//
// Hollywood phrases:
//
//	"<mood> movies"
//	"<mood> comedy movies"   (happy)   | "<mood> drama movies"
//	"<mood> action movies"   (energetic) | "<mood> romantic movies"
//	"<mood> movies <input>"  (short input only)
//
// Bollywood phrases:
//
//	"<mood> bollywood movies"
//	"<mood> bollywood action movies" (energetic) | "<mood> bollywood romantic movies"
//	"<mood> bollywood <input>"        (short input only)
func Plan(m mood.Mood, pref models.Preference, input string, shortWords int) []string {
	name := string(m)
	input = strings.ToLower(strings.TrimSpace(input))
	short := input != "" && len(strings.Fields(input)) <= shortWords

	var queries []string
	if pref.IncludesHollywood() {
		second := name + " drama movies"
		if m == mood.Happy {
			second = name + " comedy movies"
		}
		third := name + " romantic movies"
		if m.Energetic() {
			third = name + " action movies"
		}
		queries = append(queries, name+" movies", second, third)
	}
	if pref.IncludesBollywood() {
		second := name + " bollywood romantic movies"
		if m.Energetic() {
			second = name + " bollywood action movies"
		}
		queries = append(queries, name+" bollywood movies", second)
	}
	if short {
		if pref.IncludesHollywood() {
			queries = append(queries, name+" movies "+input)
		}
		if pref.IncludesBollywood() {
			queries = append(queries, name+" bollywood "+input)
		}
	}
	return queries
}
