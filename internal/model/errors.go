package model

import "errors"

// Common errors used across the application
var (
	// Matchmaking errors
	ErrAlreadyQueued = errors.New("participant is already queued")
	ErrNotQueued     = errors.New("participant is not queued")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNotInSession    = errors.New("participant is not in a session")
	ErrWrongPhase      = errors.New("action not valid in the current phase")
	ErrInvalidVote     = errors.New("vote must be \"human\" or \"bot\"")
	ErrEmptyMessage    = errors.New("message text is empty")

	// Mode errors
	ErrUnknownMode       = errors.New("unknown game mode")
	ErrInvalidSubmission = errors.New("submission does not match the mode's shape")

	// Stats errors
	ErrStatsNotFound = errors.New("stats record not found")

	// Provider errors
	ErrProviderNotFound = errors.New("provider not found")
)
