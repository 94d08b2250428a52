package engine

import (
	"github.com/dshills/keyspell/internal/engine/buffer"
)

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width for the engine.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithLineEnding sets the line ending style for the engine.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
	}
}

// WithSegmenter sets the word segmentation used by buffers the engine
// creates.
func WithSegmenter(s buffer.Segmenter) Option {
	return func(e *Engine) {
		e.segmenter = s
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
