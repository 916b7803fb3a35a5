// MoodFlix - Mood-based movie recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodflix

package client

import (
	"errors"
	"fmt"
)

// User-facing messages for failures without a server-supplied message.
const (
	MessageServiceGeneric = "Something went wrong. Please try again."
	MessageTransport      = "Failed to get movie recommendations. Please try again."
)

// ErrInvalidRequest is returned before any I/O when a request violates the
// client's input constraints.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// ServiceError is a response from the recommendation service that could not
// be used: a non-2xx status, or a 2xx body that did not decode.
type ServiceError struct {
	// Status is the HTTP status code.
	Status int

	// Message is the service's "error" field, or "" when it sent none.
	Message string

	// Err is the decode error for malformed 2xx bodies.
	Err error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("recommendation service returned %d: %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("recommendation service returned %d with an unreadable body: %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("recommendation service returned %d", e.Status)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// TransportError means the service could not be reached: connection
// failure, DNS failure, or the call's timeout.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show for a recommendation failure.
func UserMessage(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Message != "" {
			return svcErr.Message
		}
		return MessageServiceGeneric
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return MessageTransport
	}

	return MessageServiceGeneric
}
