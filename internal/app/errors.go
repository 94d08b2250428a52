package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run or SetBackend was called while the
	// event loop runs.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend indicates Run was called without a terminal backend.
	ErrNoBackend = errors.New("no backend")

	// ErrNoFilePath indicates a scratch document cannot be saved.
	ErrNoFilePath = errors.New("document has no file path")

	// ErrUnsavedChanges indicates a quit was refused once because the
	// document has unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")
)

// OperationError reports a failed file operation on a document.
type OperationError struct {
	Op     string // "open" or "save"
	Target string // file path
	Err    error
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error { return e.Err }

// ComponentError reports a component that failed to start or run.
type ComponentError struct {
	Component string // "spell", "wordlist", "logging", "backend"
	Action    string
	Err       error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	msg := e.Component
	if e.Action != "" {
		msg += ": " + e.Action
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComponentError) Unwrap() error { return e.Err }

// RecoveredPanicError wraps a panic raised while handling an event. The
// stack is kept out of Error so the message fits the status line.
type RecoveredPanicError struct {
	Value any
	Stack string
}

// NewRecoveredPanicError creates a new RecoveredPanicError.
func NewRecoveredPanicError(value any, stack string) *RecoveredPanicError {
	return &RecoveredPanicError{Value: value, Stack: stack}
}

func (e *RecoveredPanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
