// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package mood

import (
	"fmt"

	"github.com/cdipaolo/sentiment"
)

// SentimentScorer scores text with the pretrained naive Bayes model shipped
// with github.com/cdipaolo/sentiment.
type SentimentScorer struct {
	model sentiment.Models
}

// NewSentimentScorer restores the embedded model.
func NewSentimentScorer() (*SentimentScorer, error) {
	model, err := sentiment.Restore()
	if err != nil {
		return nil, fmt.Errorf("restore sentiment model: %w", err)
	}
	return &SentimentScorer{model: model}, nil
}

// Polarity is the share of positive words minus the share of negative words,
// damped by half when the whole-text verdict disagrees with the word majority.
// Empty text is neutral.
func (s *SentimentScorer) Polarity(text string) float64 {
	analysis := s.model.SentimentAnalysis(text, sentiment.English)
	if analysis == nil || len(analysis.Words) == 0 {
		return 0
	}

	var pos, neg int
	for _, w := range analysis.Words {
		if w.Score == 1 {
			pos++
		} else {
			neg++
		}
	}

	p := float64(pos-neg) / float64(pos+neg)
	overallPositive := analysis.Score == 1
	if (p > 0) != overallPositive && p != 0 {
		p /= 2
	}
	return p
}
