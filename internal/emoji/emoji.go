// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package emoji maps the mood picker's emoji to mood labels and builds the
// sentence submitted on the user's behalf when an emoji is picked.
//
// The table is client-side only. The recommendation service keeps its own
// emoji override table (see internal/mood) and the two deliberately differ
// for 🕵️, which the picker labels "mystery" but the service treats as bored.
package emoji

import (
	"fmt"
	"strings"
)

// variationSelector16 requests emoji presentation. Pickers and keyboards
// disagree on whether to emit it, so lookups ignore it.
const variationSelector16 = "\uFE0F"

// Mood is one picker entry.
type Mood struct {
	Emoji string
	Label string
}

// picker lists the fixed emoji set in display order.
var picker = []Mood{
	{"😊", "happy"},
	{"😢", "sad"},
	{"😠", "angry"},
	{"😌", "relaxed"},
	{"😴", "bored"},
	{"🤩", "excited"},
	{"💕", "romantic"},
	{"😨", "scared"},
	{"🕵️", "mystery"},
	{"🚀", "adventurous"},
}

var labels = func() map[string]string {
	m := make(map[string]string, len(picker))
	for _, p := range picker {
		m[normalize(p.Emoji)] = p.Label
	}
	return m
}()

func normalize(e string) string {
	return strings.ReplaceAll(strings.TrimSpace(e), variationSelector16, "")
}

// All returns the picker entries in display order.
func All() []Mood {
	out := make([]Mood, len(picker))
	copy(out, picker)
	return out
}

// Label returns the mood label for e, or "" when e is not in the picker.
func Label(e string) string {
	return labels[normalize(e)]
}

// Mapped reports whether e is in the picker.
func Mapped(e string) bool {
	return Label(e) != ""
}

// Sentence returns the mood text submitted for a picked emoji,
// "I feel <label> <emoji>", and false for an unmapped emoji.
func Sentence(e string) (string, bool) {
	label := Label(e)
	if label == "" {
		return "", false
	}
	return fmt.Sprintf("I feel %s %s", strings.ToLower(label), strings.TrimSpace(e)), true
}
