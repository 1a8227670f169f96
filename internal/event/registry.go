package event

import (
	"slices"
	"sync"
)

// Registry maps event keys to their listeners in registration order.
// It is safe for concurrent use. Callbacks are never invoked while the
// registry lock is held, so listeners may subscribe and unsubscribe freely
// from inside a dispatch.
type Registry[K comparable, F any] struct {
	mu    sync.Mutex
	subs  map[K][]*Listener[F]
	count int
}

// NewRegistry creates a new subscription registry.
func NewRegistry[K comparable, F any]() *Registry[K, F] {
	return &Registry[K, F]{
		subs: make(map[K][]*Listener[F]),
	}
}

// Subscribe appends a new listener record for key and returns the handle
// that removes it.
func (r *Registry[K, F]) Subscribe(key K, call F, once bool) Unsubscribe {
	l := newListener(call, once)

	r.mu.Lock()
	if r.subs == nil {
		r.subs = make(map[K][]*Listener[F])
	}
	r.subs[key] = append(r.subs[key], l)
	r.count++
	r.mu.Unlock()

	return func() {
		r.Remove(key, l)
	}
}

// Lookup returns a copy of the listeners registered for key, in
// registration order. An unknown key yields nil and leaves the registry
// untouched.
func (r *Registry[K, F]) Lookup(key K) []*Listener[F] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.subs[key])
}

// Remove deletes the listener record from key's list.
// It returns false if the record is not registered under key.
func (r *Registry[K, F]) Remove(key K, l *Listener[F]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[key]
	i := slices.Index(subs, l)
	if i < 0 {
		return false
	}

	subs = slices.Delete(subs, i, i+1)
	if len(subs) == 0 {
		delete(r.subs, key)
	} else {
		r.subs[key] = subs
	}
	r.count--

	return true
}

// Len returns the number of listeners registered for key.
func (r *Registry[K, F]) Len(key K) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subs[key])
}

// Count returns the total number of listeners across all keys.
func (r *Registry[K, F]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}

// Keys returns every key that has at least one listener, in no particular order.
func (r *Registry[K, F]) Keys() []K {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs) == 0 {
		return nil
	}

	keys := make([]K, 0, len(r.subs))
	for k := range r.subs {
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all listeners. Handles returned before Clear become no-ops.
func (r *Registry[K, F]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = make(map[K][]*Listener[F])
	r.count = 0
}

// Snapshot starts a dispatch pass over key. The pass holds a stable copy
// of the listeners, so subscriptions and removals made while the pass is
// running do not change who receives it.
//
// A once-listener is claimed by the first pass that snapshots it; later
// passes skip it even if it has not been removed yet.
func (r *Registry[K, F]) Snapshot(key K) *Pass[K, F] {
	snapshot := r.Lookup(key)

	listeners := snapshot[:0]
	for _, l := range snapshot {
		if l.claim() {
			listeners = append(listeners, l)
		}
	}

	return &Pass[K, F]{
		registry:  r,
		key:       key,
		listeners: listeners,
	}
}

// Pass is one dispatch over a fixed snapshot of a key's listeners.
type Pass[K comparable, F any] struct {
	registry  *Registry[K, F]
	key       K
	listeners []*Listener[F]
}

// Key returns the key being dispatched.
func (p *Pass[K, F]) Key() K {
	return p.key
}

// Listeners returns the snapshot in invocation order.
func (p *Pass[K, F]) Listeners() []*Listener[F] {
	return p.listeners
}

// Len returns the number of listeners in the snapshot.
func (p *Pass[K, F]) Len() int {
	return len(p.listeners)
}

// Finish removes the pass's once-listeners from the registry in invocation
// order and returns how many were still registered. Call it after every
// listener in the pass has been invoked.
func (p *Pass[K, F]) Finish() int {
	removed := 0
	for _, l := range p.listeners {
		if l.once && p.registry.Remove(p.key, l) {
			removed++
		}
	}
	return removed
}
