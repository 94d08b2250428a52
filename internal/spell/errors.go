package spell

import (
	"errors"
	"fmt"
)

// Errors returned by the spell checker.
var (
	// ErrNoDictionariesFound indicates the backend offers no languages at
	// all. A checker cannot be created without one.
	ErrNoDictionariesFound = errors.New("no dictionaries found")

	// ErrUnsupportedLanguage indicates a language code the backend has no
	// dictionary for.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidFilter indicates a filter pattern that does not compile.
	ErrInvalidFilter = errors.New("invalid filter pattern")

	// ErrUnknownScope indicates a filter scope name that is not word, line
	// or text.
	ErrUnknownScope = errors.New("unknown filter scope")

	// ErrFilterNotFound indicates RemoveFilter was given a pattern that is
	// not in the filter list.
	ErrFilterNotFound = errors.New("filter not found")

	// ErrIgnoreTagNotFound indicates RemoveIgnoreTag was given a tag that
	// is not being ignored.
	ErrIgnoreTagNotFound = errors.New("ignore tag not found")

	// ErrReentrantCheck indicates CheckRange was invoked from inside a
	// callback triggered by a running check.
	ErrReentrantCheck = errors.New("check range re-entered")

	// ErrAlreadyAttached indicates a view already has a checker.
	ErrAlreadyAttached = errors.New("view already has a spell checker")

	// ErrViewNotComparable indicates a view that cannot be used as a
	// registry key because its dynamic type is not comparable.
	ErrViewNotComparable = errors.New("view is not comparable")

	// ErrUnknownAction indicates a menu action the checker does not handle.
	ErrUnknownAction = errors.New("unknown menu action")

	// ErrClosed indicates the checker was closed.
	ErrClosed = errors.New("spell checker closed")
)

// FilterError reports a filter pattern that failed to compile.
type FilterError struct {
	Pattern string
	Scope   FilterScope
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s filter %q: %v", e.Scope, e.Pattern, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidFilter so callers can match any compile failure.
func (e *FilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// BackendError wraps a failure reported by the dictionary backend.
type BackendError struct {
	Op   string // check, suggest, add, ignore, request
	Word string // word or language code the call was about
	Err  error
}

func (e *BackendError) Error() string {
	if e.Word == "" {
		return fmt.Sprintf("dictionary %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("dictionary %s %q: %v", e.Op, e.Word, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendError(op, word string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Word: word, Err: err}
}
