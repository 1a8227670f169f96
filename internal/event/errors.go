package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event systems.
var (
	// ErrListenerFailed matches every ListenerError.
	ErrListenerFailed = errors.New("listener failed")

	// ErrListenerPanic matches every PanicError.
	ErrListenerPanic = errors.New("listener panicked")
)

// ListenerError wraps an error returned by a listener with additional context.
type ListenerError struct {
	// Event is the name of the event being dispatched.
	Event string

	// ListenerID is the ID of the listener that failed.
	ListenerID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return "listener " + e.ListenerID + " failed on event " + e.Event + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ListenerError with ErrListenerFailed.
func (e *ListenerError) Is(target error) bool {
	return target == ErrListenerFailed
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// Event is the name of the event being dispatched.
	Event string

	// ListenerID is the ID of the listener that panicked.
	ListenerID string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener %s panicked on event %s: %v", e.ListenerID, e.Event, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
