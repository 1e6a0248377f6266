package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlacesFound is not surfaced as an error to the caller; agents turn it
	// into a plain message.
	ErrNoPlacesFound = errors.New("no places found")
	ErrNoFragments   = errors.New("stream returned no fragments")

	ErrEmptyMessage       = errors.New("message cannot be empty")
	ErrInvalidTemperature = errors.New("temperature must be between 0.0 and 1.0")
	ErrInvalidMaxTokens   = errors.New("max_tokens must be between 0 and 100000")
	ErrInvalidTimestamp   = errors.New("timestamp cannot be negative")
)

// LookupError reports a failed place search or detail fetch.
type LookupError struct {
	Status int
	Body   string
	Err    error
}

func (e *LookupError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("places lookup failed (%d): %v", e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("places lookup failed: %v", e.Err)
	default:
		return fmt.Sprintf("places lookup failed with status %d", e.Status)
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// GenerationError reports a failed, disconnected or empty completion stream.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
