package event

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/eventsystem/internal/event/dispatch"
)

// Core is the registry and bookkeeping shared by the sync and async
// systems. Both variants keep their listeners as dispatch.Handler values;
// the typed subscribe functions adapt user callbacks to that shape.
type Core struct {
	registry *Registry[ID, dispatch.Handler]
	config   config

	dispatches  atomic.Uint64
	delivered   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	onceRemoved atomic.Uint64
}

// NewCore creates a Core with the given options.
func NewCore(opts ...Option) *Core {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Core{
		registry: NewRegistry[ID, dispatch.Handler](),
		config:   cfg,
	}
}

// Registry returns the underlying registry.
func (c *Core) Registry() *Registry[ID, dispatch.Handler] {
	return c.registry
}

// Logger returns the configured logger.
func (c *Core) Logger() *zap.Logger {
	return c.config.logger
}

// Concurrency returns the configured async concurrency cap (0 means none).
func (c *Core) Concurrency() int {
	return c.config.concurrency
}

// TolerateFailures reports whether async joins ignore listener failures.
func (c *Core) TolerateFailures() bool {
	return c.config.tolerateFailures
}

// Subscribe registers a handler under id.
func (c *Core) Subscribe(id ID, h dispatch.Handler, once bool) Unsubscribe {
	return c.registry.Subscribe(id, h, once)
}

// Begin snapshots the listeners for id.
func (c *Core) Begin(id ID) *Pass[ID, dispatch.Handler] {
	p := c.registry.Snapshot(id)
	if p.Len() == 0 {
		return p
	}

	c.dispatches.Add(1)
	if ce := c.config.logger.Check(zap.DebugLevel, "dispatching event"); ce != nil {
		once := 0
		for _, l := range p.Listeners() {
			if l.Once() {
				once++
			}
		}
		ce.Write(
			zap.String("event", id.Name),
			zap.Int("listeners", p.Len()),
			zap.Int("once", once),
		)
	}
	return p
}

// Handlers returns the snapshot's handlers in invocation order.
func Handlers(p *Pass[ID, dispatch.Handler]) []dispatch.Handler {
	handlers := make([]dispatch.Handler, p.Len())
	for i, l := range p.Listeners() {
		handlers[i] = l.Call()
	}
	return handlers
}

// Finish removes the pass's once-listeners.
func (c *Core) Finish(p *Pass[ID, dispatch.Handler]) {
	if removed := p.Finish(); removed > 0 {
		c.onceRemoved.Add(uint64(removed))
	}
}

// Report records the outcome of each listener in the pass and returns the
// failures, in invocation order.
func (c *Core) Report(p *Pass[ID, dispatch.Handler], results []dispatch.Result) []error {
	var errs []error
	for i, l := range p.Listeners() {
		if err := c.report(p.Key(), l, results[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Core) report(id ID, l *Listener[dispatch.Handler], result dispatch.Result) error {
	c.delivered.Add(1)

	var err error
	switch {
	case result.Panicked:
		c.panicked.Add(1)
		err = &PanicError{
			Event:      id.Name,
			ListenerID: l.ID(),
			Value:      result.PanicValue,
			Stack:      string(result.PanicStack),
		}
		c.config.logger.Error("listener panicked",
			zap.String("event", id.Name),
			zap.String("listener", l.ID()),
			zap.Any("panic", result.PanicValue),
			zap.ByteString("stack", result.PanicStack),
		)
	case result.Error != nil:
		c.failed.Add(1)
		err = &ListenerError{
			Event:      id.Name,
			ListenerID: l.ID(),
			Err:        result.Error,
		}
		c.config.logger.Error("listener failed",
			zap.String("event", id.Name),
			zap.String("listener", l.ID()),
			zap.Error(result.Error),
			zap.Duration("duration", result.Duration),
		)
	default:
		return nil
	}

	if h := c.config.errorHandler; h != nil {
		func() {
			// A panicking error handler must not break the pass.
			defer func() { _ = recover() }()
			h(err)
		}()
	}
	return err
}

// Stats returns system statistics.
func (c *Core) Stats() Stats {
	return Stats{
		Dispatches:  c.dispatches.Load(),
		Delivered:   c.delivered.Load(),
		Failed:      c.failed.Load(),
		Panicked:    c.panicked.Load(),
		OnceRemoved: c.onceRemoved.Load(),
		Listeners:   c.registry.Count(),
	}
}
