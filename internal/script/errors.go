package script

import "errors"

// Errors for scripted actions.
var (
	// ErrClosed is returned when invoking an action whose Lua state is closed.
	ErrClosed = errors.New("script action is closed")

	// ErrMissingExecute is returned when a chunk defines no execute function.
	ErrMissingExecute = errors.New("script defines no execute function")

	// ErrMissingUndo is returned when a chunk defines no undo function.
	ErrMissingUndo = errors.New("script defines no undo function")
)
