package async

import (
	"context"
	"errors"

	"github.com/dshills/eventsystem/internal/event"
	"github.com/dshills/eventsystem/internal/event/dispatch"
)

// Listener handles one asynchronous event delivery.
type Listener[T any] func(ctx context.Context, payload T) error

// System is the asynchronous event system.
type System struct {
	core *event.Core
}

// New creates a new asynchronous event system.
func New(opts ...event.Option) *System {
	return &System{core: event.NewCore(opts...)}
}

// Core returns the system's registry and bookkeeping.
func (s *System) Core() *event.Core {
	return s.core
}

// Stats returns system statistics.
func (s *System) Stats() event.Stats {
	return s.core.Stats()
}

// On registers fn for every emission of key until it is unsubscribed.
func On[T any](s *System, key event.Key[T], fn Listener[T]) event.Unsubscribe {
	return s.core.Subscribe(key.ID(), adapt(fn), false)
}

// Once registers fn for the next emission of key only.
func Once[T any](s *System, key event.Key[T], fn Listener[T]) event.Unsubscribe {
	return s.core.Subscribe(key.ID(), adapt(fn), true)
}

// Emit starts every listener of key and returns without waiting for them.
// Once-listeners are removed as soon as they have been started.
func Emit[T any](s *System, key event.Key[T], payload T) {
	p := s.core.Begin(key.ID())
	if p.Len() == 0 {
		return
	}

	batch := dispatch.Start(context.Background(), s.core.Concurrency(), payload, event.Handlers(p))
	s.core.Finish(p)

	go func() {
		s.core.Report(p, batch.Wait())
	}()
}

// EmitAsync starts every listener of key, in registration order, and blocks
// until all of them have returned, then removes the once-listeners. The returned error joins every
// listener failure, in registration order.
func EmitAsync[T any](ctx context.Context, s *System, key event.Key[T], payload T) error {
	p := s.core.Begin(key.ID())
	if p.Len() == 0 {
		return nil
	}

	results := dispatch.Join(ctx, s.core.Concurrency(), payload, event.Handlers(p))
	errs := s.core.Report(p, results)
	s.core.Finish(p)

	if s.core.TolerateFailures() {
		return nil
	}
	return errors.Join(errs...)
}

func adapt[T any](fn Listener[T]) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, e any) error {
		payload, _ := e.(T)
		return fn(ctx, payload)
	})
}
