// Package event provides a typed publish/subscribe registry.
//
// Callers register callbacks against event keys and later emit a payload to
// every callback registered for that key. Each key fixes its payload type
// at declaration, so a listener can only be registered with a matching
// callback signature:
//
//	var Connect = event.NewKey[string]("connect")
//
//	sys := event.New()
//	off := event.On(sys, Connect, func(user string) {
//	    fmt.Println("connected:", user)
//	})
//	event.Once(sys, Connect, func(user string) {
//	    fmt.Println("first connection:", user)
//	})
//
//	event.Emit(sys, Connect, "ada") // both listeners run, the once-listener is dropped
//	off()                            // removes the first listener; safe to call again
//
// Callbacks that need several arguments take a struct payload.
//
// # Architecture
//
//	┌──────────────────────┐
//	│ System, async.System │  typed On, Once, Emit, EmitAsync
//	└──────────┬───────────┘
//	           ▼
//	┌──────────────────────┐
//	│         Core         │  logging, error reporting, stats
//	└──────────┬───────────┘
//	           ▼
//	┌──────────────────────┐      ┌───────────────────────┐
//	│       Registry       │ ───▶ │ dispatch (Sequence,   │
//	│  key → []*Listener   │ Pass │ Start, Join)          │
//	└──────────────────────┘      └───────────────────────┘
//
// # Dispatch
//
// Every emission is one pass over a snapshot of the key's listeners, taken
// before any of them runs:
//
//  1. The snapshot is copied under the registry lock.
//  2. Listeners are invoked in registration order.
//  3. Once-listeners in the snapshot are removed, in invocation order,
//     after all listeners have run.
//
// A listener that subscribes or unsubscribes others during a pass does not
// change who receives that pass. A once-listener is claimed by the first
// pass that snapshots it, so it fires exactly once even when emissions
// overlap.
//
// # Failures
//
// Listener failures are isolated. A panic in one listener is recovered and
// logged, the remaining listeners still run, and once-cleanup still
// happens. Emit returns the joined failures as *PanicError values so the
// caller can inspect them with errors.As.
//
// # Thread Safety
//
// Systems and the Registry are safe for concurrent use. Listeners must
// manage their own thread safety.
//
// # Subpackages
//
//   - async: the asynchronous system with a joining EmitAsync
//   - dispatch: handler execution, panic recovery and fan-out/fan-in
//   - script: Lua functions as listeners
package event
