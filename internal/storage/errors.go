package storage

import "errors"

var (
	// ErrEmptyPath indicates that no database path was given.
	ErrEmptyPath = errors.New("db path cannot be empty")
	// ErrInvalidDecision indicates a permission decision other than granted or denied.
	ErrInvalidDecision = errors.New("invalid permission decision")
	// ErrInvalidOutcome indicates a search outcome outside found, not-found and error.
	ErrInvalidOutcome = errors.New("invalid search outcome")
)
