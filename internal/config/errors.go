package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration lookups.
var (
	// ErrSettingNotFound indicates no layer defines the path.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates a value that cannot be converted to the
	// requested type. *TypeError matches it.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidPath indicates an empty path or one starting or ending
	// with a dot.
	ErrInvalidPath = errors.New("invalid setting path")
)

// TypeError reports a setting whose value has the wrong type, such as
// spell.enabled = "yes". Section accessors record it and fall back to
// the default.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
