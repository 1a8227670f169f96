package dispatch

import (
	"context"
	"fmt"
	"time"
)

// Handler is the interface for event handlers.
// This mirrors the listener callbacks of the event package to avoid circular imports.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Result represents the outcome of a handler execution.
type Result struct {
	// Error is the error returned by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration
}

// IsSuccess returns true if the handler returned nil without panicking.
func (r Result) IsSuccess() bool {
	return !r.Panicked && r.Error == nil
}

// IsError returns true if the result indicates an error (not panic).
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic returns true if the result indicates a panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	switch {
	case r.Panicked:
		return fmt.Errorf("panic: %v", r.PanicValue)
	case r.Error != nil:
		return r.Error
	}
	return nil
}
