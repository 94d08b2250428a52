package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past the
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrModuleNotAvailable is returned by require for modules that are
	// neither built in nor preloaded.
	ErrModuleNotAvailable = errors.New("lua module not available")
)
