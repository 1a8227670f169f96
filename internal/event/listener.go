package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Unsubscribe removes exactly the listener it was returned for. Calling it
// more than once, or after a once-listener has already fired, does nothing.
type Unsubscribe func()

// Listener is a single subscription record. Two subscriptions of the same
// callback are two distinct records; removal compares record pointers.
type Listener[F any] struct {
	id    string
	call  F
	once  bool
	fired atomic.Bool
}

// newListener creates a new listener record.
func newListener[F any](call F, once bool) *Listener[F] {
	return &Listener[F]{
		id:   uuid.NewString(),
		call: call,
		once: once,
	}
}

// ID returns the listener's unique identifier. It is used for diagnostics
// only; identity is the record itself.
func (l *Listener[F]) ID() string {
	return l.id
}

// Call returns the listener's callback.
func (l *Listener[F]) Call() F {
	return l.call
}

// Once reports whether the listener is removed after its first dispatch.
func (l *Listener[F]) Once() bool {
	return l.once
}

// Fired reports whether a once-listener has been claimed by a dispatch.
// It is always false for durable listeners.
func (l *Listener[F]) Fired() bool {
	return l.fired.Load()
}

// claim marks a once-listener as taken by a dispatch pass. It returns
// false if another pass got there first. Durable listeners are always
// claimable.
func (l *Listener[F]) claim() bool {
	if !l.once {
		return true
	}
	return l.fired.CompareAndSwap(false, true)
}
