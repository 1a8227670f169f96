package playbook

import (
	"context"

	"github.com/dshills/eventsystem/internal/config"
	"github.com/dshills/eventsystem/internal/event"
	"github.com/dshills/eventsystem/internal/event/async"
	"github.com/dshills/eventsystem/internal/event/script"
)

// system hides the difference between the sync and async variants.
type system interface {
	bind(e *script.Engine, key event.Key[script.Payload], name string, once bool) (event.Unsubscribe, error)
	emit(ctx context.Context, key event.Key[script.Payload], payload script.Payload) error
	stats() event.Stats
}

func newSystem(mode string, opts ...event.Option) system {
	if mode == config.ModeAsync {
		return asyncSystem{async.New(opts...)}
	}
	return syncSystem{event.New(opts...)}
}

type syncSystem struct {
	s *event.System
}

func (s syncSystem) bind(e *script.Engine, key event.Key[script.Payload], name string, once bool) (event.Unsubscribe, error) {
	return script.Bind(e, s.s, key, name, once)
}

func (s syncSystem) emit(_ context.Context, key event.Key[script.Payload], payload script.Payload) error {
	return event.Emit(s.s, key, payload)
}

func (s syncSystem) stats() event.Stats {
	return s.s.Stats()
}

type asyncSystem struct {
	s *async.System
}

func (s asyncSystem) bind(e *script.Engine, key event.Key[script.Payload], name string, once bool) (event.Unsubscribe, error) {
	return script.BindAsync(e, s.s, key, name, once)
}

func (s asyncSystem) emit(ctx context.Context, key event.Key[script.Payload], payload script.Payload) error {
	return async.EmitAsync(ctx, s.s, key, payload)
}

func (s asyncSystem) stats() event.Stats {
	return s.s.Stats()
}
