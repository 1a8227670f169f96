package script

import (
	"context"
	"fmt"

	"github.com/dshills/eventsystem/internal/event"
	"github.com/dshills/eventsystem/internal/event/async"
)

// Bind subscribes the named script to key on a synchronous system.
// Sync listeners cannot return errors, so a script error is raised as a
// panic; the system recovers it and reports an *event.PanicError.
func Bind(e *Engine, s *event.System, key event.Key[Payload], name string, once bool) (event.Unsubscribe, error) {
	if !e.Has(name) {
		return nil, fmt.Errorf("binding %s to %s: %w", name, key, ErrUnknownScript)
	}

	fn := func(p Payload) {
		if err := e.Call(name, p); err != nil {
			panic(err)
		}
	}
	if once {
		return event.Once(s, key, fn), nil
	}
	return event.On(s, key, fn), nil
}

// BindAsync subscribes the named script to key on an asynchronous system.
// Script errors are returned as listener errors.
func BindAsync(e *Engine, s *async.System, key event.Key[Payload], name string, once bool) (event.Unsubscribe, error) {
	if !e.Has(name) {
		return nil, fmt.Errorf("binding %s to %s: %w", name, key, ErrUnknownScript)
	}

	fn := func(_ context.Context, p Payload) error {
		return e.Call(name, p)
	}
	if once {
		return async.Once(s, key, fn), nil
	}
	return async.On(s, key, fn), nil
}
