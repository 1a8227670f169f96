package event

// ErrorHandler is called when a listener fails.
type ErrorHandler func(err error)

// Stats contains event system statistics.
type Stats struct {
	// Dispatches is the number of emissions that reached at least one listener.
	Dispatches uint64 `toml:"dispatches"`

	// Delivered is the number of listener invocations that have settled.
	Delivered uint64 `toml:"delivered"`

	// Failed is the number of listeners that returned an error.
	Failed uint64 `toml:"failed"`

	// Panicked is the number of listeners that panicked.
	Panicked uint64 `toml:"panicked"`

	// OnceRemoved is the number of once-listeners removed after firing.
	OnceRemoved uint64 `toml:"once_removed"`

	// Listeners is the current number of registered listeners.
	Listeners int `toml:"listeners"`
}
