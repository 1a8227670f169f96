package config

import (
	"errors"
	"fmt"
)

// Dispatch modes.
const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

// Config is a parsed playbook.
type Config struct {
	// Mode selects the sync or async event system.
	Mode string `toml:"mode"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Listeners are the Lua listeners to register, in order.
	Listeners []Listener `toml:"listener"`

	// Steps run in order after every listener is registered.
	Steps []Step `toml:"step"`
}

// Listener declares a Lua listener.
type Listener struct {
	// Name identifies the listener for remove steps.
	Name string `toml:"name"`

	// Event is the event name the listener subscribes to.
	Event string `toml:"event"`

	// Once removes the listener after its first dispatch.
	Once bool `toml:"once"`

	// Source is an inline Lua chunk returning a function.
	Source string `toml:"source"`

	// File is a Lua file, relative to the playbook, used instead of Source.
	File string `toml:"file"`
}

// Step is a single playbook action: an emission or a removal.
type Step struct {
	// Emit is the event name to emit.
	Emit string `toml:"emit"`

	// Payload is passed to the listeners of Emit.
	Payload map[string]any `toml:"payload"`

	// Remove is the name of a listener to unsubscribe.
	Remove string `toml:"remove"`
}

// Action returns "emit" or "remove".
func (s Step) Action() string {
	if s.Remove != "" {
		return "remove"
	}
	return "emit"
}

// Target returns the event or listener name the step acts on.
func (s Step) Target() string {
	if s.Remove != "" {
		return s.Remove
	}
	return s.Emit
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeSync
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the playbook and reports every problem it finds.
func (c *Config) Validate() error {
	var problems []error

	switch c.Mode {
	case ModeSync, ModeAsync:
	default:
		problems = append(problems, fmt.Errorf("mode %q must be %s or %s", c.Mode, ModeSync, ModeAsync))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Errorf("log level %q must be debug, info, warn, or error", c.LogLevel))
	}

	names := make(map[string]bool, len(c.Listeners))
	for i, l := range c.Listeners {
		switch {
		case l.Name == "":
			problems = append(problems, fmt.Errorf("listener %d: name is required", i))
		case names[l.Name]:
			problems = append(problems, fmt.Errorf("listener %d: duplicate name %q", i, l.Name))
		}
		names[l.Name] = true

		if l.Event == "" {
			problems = append(problems, fmt.Errorf("listener %q: event is required", l.Name))
		}
		if l.Source == "" && l.File == "" {
			problems = append(problems, fmt.Errorf("listener %q: one of source or file is required", l.Name))
		}
	}

	for i, s := range c.Steps {
		switch {
		case (s.Emit == "") == (s.Remove == ""):
			problems = append(problems, fmt.Errorf("step %d: exactly one of emit or remove is required", i))
		case s.Remove != "" && !names[s.Remove]:
			problems = append(problems, fmt.Errorf("step %d: unknown listener %q", i, s.Remove))
		case s.Remove != "" && s.Payload != nil:
			problems = append(problems, fmt.Errorf("step %d: payload is only valid with emit", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}
