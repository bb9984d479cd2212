// Package tmux provides a thin abstraction over the tmux command line.
package tmux

import "errors"

var (
	// ErrTmuxNotRunning is returned when tmux server is not available.
	ErrTmuxNotRunning = errors.New("tmux server is not running")

	// ErrInvalidTarget is returned when a tmux target specification is invalid.
	ErrInvalidTarget = errors.New("invalid tmux target specification")
)
