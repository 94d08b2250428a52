package plugin

import "errors"

// Script host errors.
var (
	// ErrScriptNotFound is returned when the init script does not exist.
	ErrScriptNotFound = errors.New("script not found")

	// ErrAlreadyLoaded is returned when a host loads a second script.
	ErrAlreadyLoaded = errors.New("script is already loaded")

	// ErrNotLoaded is returned when activating a host without a script.
	ErrNotLoaded = errors.New("script is not loaded")

	// ErrHostClosed is returned after Close.
	ErrHostClosed = errors.New("script host is closed")
)
