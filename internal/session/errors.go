// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package session

import (
	"errors"

	"github.com/tomtom215/moodflix/internal/client"
)

// MessageEmptyMood is shown when a submit has no mood text.
const MessageEmptyMood = "Please tell us how you are feeling!"

// ErrSuperseded is returned by a submit whose response arrived after a newer
// submit began. The response was discarded.
var ErrSuperseded = errors.New("session: response superseded by a newer submit")

// ValidationError rejects a submit before any network call.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return client.UserMessage(err)
}

// outcome returns the metrics label for a submit result.
func outcome(err error) string {
	var (
		verr         *ValidationError
		transportErr *client.TransportError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "validation_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	default:
		return "service_error"
	}
}
