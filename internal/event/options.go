package event

import "go.uber.org/zap"

// Option configures an event system.
type Option func(*config)

// config contains configuration shared by the sync and async systems.
type config struct {
	// logger receives dispatch and failure logs.
	logger *zap.Logger

	// errorHandler is told about every listener failure.
	errorHandler ErrorHandler

	// concurrency caps concurrently running async listeners per emission.
	concurrency int

	// tolerateFailures makes async joins report success despite failures.
	tolerateFailures bool
}

// defaultConfig returns the default configuration.
func defaultConfig() config {
	return config{
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHandler sets a callback for listener failures. It receives a
// *ListenerError or a *PanicError.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

// WithConcurrency caps how many listeners of one asynchronous emission run
// at once. Zero or less means no cap. The sync system ignores it.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTolerateFailures makes an asynchronous join succeed even when
// listeners fail. Failures are still logged and passed to the error
// handler. The sync system ignores it.
func WithTolerateFailures() Option {
	return func(c *config) {
		c.tolerateFailures = true
	}
}
