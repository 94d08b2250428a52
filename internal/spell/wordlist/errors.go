package wordlist

import "errors"

// Errors returned by the wordlist backend.
var (
	// ErrUnknownParam indicates SetParam was given a key the backend does
	// not recognize.
	ErrUnknownParam = errors.New("unknown wordlist parameter")

	// ErrInvalidWord indicates an empty word or one spanning several lines.
	ErrInvalidWord = errors.New("invalid word")

	// ErrBrokerClosed indicates the broker was closed.
	ErrBrokerClosed = errors.New("wordlist broker closed")

	// ErrBadExtension indicates an extension file that is not a ZIP archive.
	ErrBadExtension = errors.New("extension is not a valid ZIP file")

	// ErrBadXML indicates an extension without a readable dictionary
	// registry.
	ErrBadXML = errors.New("extension has no valid XML dictionary registry")
)
