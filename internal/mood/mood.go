// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

// Package mood infers a mood from free text for the recommendation service.
//
// Detection runs in three steps, first match wins:
//
//  1. an emoji sent with the request (see FromEmoji)
//  2. an explicit mood word in the text ("bored", "romantic", "scary", ...)
//  3. the text's sentiment polarity in [-1,1], bucketed by FromPolarity
package mood

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodflix/internal/logging"
)

// Mood is one of the moods the service recommends for.
type Mood string

const (
	Happy       Mood = "happy"
	Sad         Mood = "sad"
	Angry       Mood = "angry"
	Relaxed     Mood = "relaxed"
	Bored       Mood = "bored"
	Excited     Mood = "excited"
	Romantic    Mood = "romantic"
	Scared      Mood = "scared"
	Nostalgic   Mood = "nostalgic"
	Adventurous Mood = "adventurous"
)

// All lists every mood.
var All = []Mood{Happy, Sad, Angry, Relaxed, Bored, Excited, Romantic, Scared, Nostalgic, Adventurous}

var emojis = map[Mood]string{
	Happy:       "😊",
	Sad:         "😢",
	Angry:       "😠",
	Relaxed:     "😌",
	Bored:       "😴",
	Excited:     "🤩",
	Romantic:    "💕",
	Scared:      "😨",
	Nostalgic:   "😌",
	Adventurous: "🏃‍♂️",
}

// Emoji returns the emoji shown for m. Unknown moods get the happy face.
func (m Mood) Emoji() string {
	if e, ok := emojis[m]; ok {
		return e
	}
	return emojis[Happy]
}

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	_, ok := emojis[m]
	return ok
}

// Energetic reports whether m calls for action titles.
func (m Mood) Energetic() bool {
	return m == Angry || m == Excited || m == Adventurous
}

// emojiOverrides maps request emoji to moods. 🕵️ has no mystery mood on the
// service and maps to bored.
var emojiOverrides = map[string]Mood{
	"😊": Happy,
	"😢": Sad,
	"😠": Angry,
	"😌": Relaxed,
	"😴": Bored,
	"🤩": Excited,
	"💕": Romantic,
	"😨": Scared,
	"🕵": Bored,
	"🚀": Adventurous,
}

// FromEmoji maps a request emoji to a mood. The emoji presentation selector
// U+FE0F is ignored.
func FromEmoji(e string) (Mood, bool) {
	e = strings.ReplaceAll(strings.TrimSpace(e), "\uFE0F", "")
	m, ok := emojiOverrides[e]
	return m, ok
}

// FromPolarity buckets a polarity in [-1,1].
func FromPolarity(p float64) Mood {
	switch {
	case p > 0.3:
		return Happy
	case p > 0.1:
		return Excited
	case p > -0.1:
		return Relaxed
	case p > -0.3:
		return Bored
	default:
		return Sad
	}
}

// keywords maps explicit mood words (lowercased) to moods.
var keywords = map[string]Mood{
	"happy": Happy, "cheerful": Happy, "joyful": Happy, "glad": Happy, "funny": Happy, "comedy": Happy,
	"sad": Sad, "depressed": Sad, "lonely": Sad, "heartbroken": Sad, "crying": Sad, "upset": Sad,
	"angry": Angry, "furious": Angry, "mad": Angry, "annoyed": Angry, "frustrated": Angry,
	"relaxed": Relaxed, "relaxing": Relaxed, "calm": Relaxed, "chill": Relaxed, "peaceful": Relaxed,
	"bored": Bored, "boring": Bored, "dull": Bored,
	"excited": Excited, "exciting": Excited, "thrilled": Excited, "pumped": Excited, "thriller": Excited,
	"romantic": Romantic, "romance": Romantic, "date": Romantic,
	"scared": Scared, "afraid": Scared, "horror": Scared, "scary": Scared, "spooky": Scared, "frightened": Scared,
	"nostalgic": Nostalgic, "classic": Nostalgic, "vintage": Nostalgic, "childhood": Nostalgic, "retro": Nostalgic,
	"adventurous": Adventurous, "adventure": Adventurous, "explore": Adventurous, "journey": Adventurous,
}

// FromKeywords returns the mood of the first explicit mood word in text.
func FromKeywords(text string) (Mood, bool) {
	for _, w := range Words(text) {
		if m, ok := keywords[w]; ok {
			return m, true
		}
	}
	return "", false
}

// Words splits text into lowercased words.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

// Scorer computes sentiment polarity in [-1,1].
type Scorer interface {
	Polarity(text string) float64
}

// Source says which step decided a mood.
type Source string

const (
	SourceEmoji     Source = "emoji"
	SourceKeyword   Source = "keyword"
	SourceSentiment Source = "sentiment"
)

// Detector infers moods.
type Detector struct {
	scorer Scorer
	logger zerolog.Logger
}

// NewDetector creates a detector that falls back to scorer.
func NewDetector(scorer Scorer) *Detector {
	return &Detector{scorer: scorer, logger: logging.WithComponent("mood")}
}

// Detect infers the mood of text, honoring a recognized emoji first.
func (d *Detector) Detect(text, emoji string) (Mood, Source) {
	if m, ok := FromEmoji(emoji); ok {
		return m, SourceEmoji
	}
	if m, ok := FromKeywords(text); ok {
		return m, SourceKeyword
	}

	p := d.scorer.Polarity(text)
	m := FromPolarity(p)
	d.logger.Debug().Float64("polarity", p).Str("mood", string(m)).Msg("Mood from sentiment")
	return m, SourceSentiment
}
