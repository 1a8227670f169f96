package event

import (
	"reflect"
)

// Key names an event and fixes the payload type its listeners receive.
// Keys are comparable values; declare them once and share them:
//
//	var Connect = event.NewKey[string]("connect")
type Key[T any] struct {
	name string
}

// NewKey creates a key for the named event carrying payloads of type T.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the event name.
func (k Key[T]) Name() string {
	return k.name
}

// String implements fmt.Stringer.
func (k Key[T]) String() string {
	return k.name
}

// ID returns the registry identity of the key.
func (k Key[T]) ID() ID {
	return ID{Name: k.name, Payload: reflect.TypeOf((*T)(nil)).Elem()}
}

// ID identifies an event inside a registry: the event name together with
// its payload type. Keys that share a name but not a payload type never
// reach each other's listeners.
type ID struct {
	Name    string
	Payload reflect.Type
}

// String returns the event name.
func (id ID) String() string {
	return id.Name
}
