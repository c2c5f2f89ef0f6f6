package chat

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for the given id
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage is returned when a message is empty after trimming
	ErrEmptyMessage = errors.New("message is required")

	// ErrEmptyFileName is returned when a session is created without a file name
	ErrEmptyFileName = errors.New("file name is required")

	// ErrBackendFailure wraps transport or parse failures from the AI
	// backend. Session state is never corrupted by a backend failure.
	ErrBackendFailure = errors.New("ai backend failure")
)
