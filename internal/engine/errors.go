package engine

import (
	"errors"

	"github.com/dshills/keyspell/internal/engine/buffer"
)

// Errors returned by engine edits. Offset and range errors come straight
// from the buffer so callers can match either name.
var (
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange
	ErrRangeInvalid     = buffer.ErrRangeInvalid

	// ErrReadOnly indicates an edit of an engine created WithReadOnly.
	ErrReadOnly = errors.New("engine is read-only")
)
