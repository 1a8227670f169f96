package event

import (
	"context"
	"errors"

	"github.com/dshills/eventsystem/internal/event/dispatch"
)

// System is the synchronous event system. Emit invokes every listener in
// the caller's goroutine before returning.
type System struct {
	core *Core
}

// New creates a new synchronous event system.
func New(opts ...Option) *System {
	return &System{core: NewCore(opts...)}
}

// Core returns the system's registry and bookkeeping.
func (s *System) Core() *Core {
	return s.core
}

// Stats returns system statistics.
func (s *System) Stats() Stats {
	return s.core.Stats()
}

// On registers fn for every emission of key until it is unsubscribed.
func On[T any](s *System, key Key[T], fn func(T)) Unsubscribe {
	return s.core.Subscribe(key.ID(), adapt(fn), false)
}

// Once registers fn for the next emission of key only.
func Once[T any](s *System, key Key[T], fn func(T)) Unsubscribe {
	return s.core.Subscribe(key.ID(), adapt(fn), true)
}

// Emit delivers payload to every listener of key in registration order.
//
// A listener that panics is recovered and the rest still run. Once-listeners
// are removed after the whole pass. The returned error joins a *PanicError
// for every panicking listener and is nil when all of them returned normally.
// Emitting a key without listeners does nothing.
func Emit[T any](s *System, key Key[T], payload T) error {
	p := s.core.Begin(key.ID())
	if p.Len() == 0 {
		return nil
	}

	results := dispatch.Sequence(context.Background(), payload, Handlers(p))
	errs := s.core.Report(p, results)
	s.core.Finish(p)

	return errors.Join(errs...)
}

func adapt[T any](fn func(T)) dispatch.Handler {
	return dispatch.HandlerFunc(func(_ context.Context, event any) error {
		payload, _ := event.(T)
		fn(payload)
		return nil
	})
}
