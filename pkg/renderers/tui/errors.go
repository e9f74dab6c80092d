package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when validation still fails after the
	// configured number of rounds.
	ErrTooManyAttempts = errors.New("tui: too many attempts")
	// ErrFileNotFound wraps stat failures for FILE answers.
	ErrFileNotFound = errors.New("tui: file not found")
)
