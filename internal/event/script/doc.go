// Package script binds Lua functions as event listeners.
//
// An Engine owns a single sandboxed Lua state. Only the base, table, string
// and math libraries are opened. Scripts are chunks that return a function:
//
//	engine := script.NewEngine(script.WithLogger(logger))
//	engine.Load("counter", `return function(e) state.n = (state.n or 0) + e.n end`)
//
//	tick := event.NewKey[script.Payload]("tick")
//	off, err := script.Bind(engine, sys, tick, "counter", false)
//
// Payloads cross into Lua as tables. Two globals are available to scripts:
// log(msg) writes an info entry to the engine's logger, and state is a
// table shared by every script of the engine. Engine.State reads it back.
//
// gopher-lua is not goroutine-safe, so the engine serializes every call.
// A script must not emit events on a system that dispatches to the same engine.
package script
