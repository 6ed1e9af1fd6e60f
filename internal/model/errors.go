package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors used across the application
var (
	// Storage errors
	ErrNotFound = errors.New("record not found")

	// Cache boundary errors
	ErrCorruptRecord = errors.New("corrupt cache record")
	ErrInvalidRecord = errors.New("invalid archive record")

	// Archive errors
	ErrMalformedMonthURL = errors.New("malformed month archive url")
	ErrInvalidPlayerName = errors.New("invalid player name")

	// Accessor errors
	ErrPlayerNotInGame       = errors.New("player is not in game")
	ErrAccuraciesUnavailable = errors.New("accuracies not available for game")
	ErrMissingIdentity       = errors.New("request identity is not configured")
)

// RetrievalError is returned when the remote archive could not be read.
// StatusCode is zero when no response was received.
type RetrievalError struct {
	Target     string // player name or month URL
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *RetrievalError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("retrieve %s: timed out", e.Target)
	case e.StatusCode != 0:
		return fmt.Sprintf("retrieve %s: unexpected status %d", e.Target, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("retrieve %s: %v", e.Target, e.Err)
	default:
		return fmt.Sprintf("retrieve %s: failed", e.Target)
	}
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Retriable reports whether a later attempt could reasonably succeed.
// Nothing in this module retries; the classification is for callers.
func (e *RetrievalError) Retriable() bool {
	if e.Timeout {
		return true
	}
	if e.StatusCode == 0 {
		return e.Err != nil
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
