package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoStore is returned by New without a session store.
	ErrNoStore = errors.New("tui: session store is required")
)
