// Package dispatch runs event listeners for the event systems.
//
// Sequence invokes handlers one after another in the caller's goroutine.
// Start and Join fan handlers out to goroutines and fan their results back in.
// Both recover panics, so one misbehaving listener cannot take down the
// emitter or keep the others from running.
//
// # Results
//
// Every invocation yields a Result in the same position as its handler.
// A Result records whether the handler returned an error or panicked, and
// how long it took:
//
//	results := dispatch.Join(ctx, 0, payload, handlers)
//	for i, r := range results {
//	    if !r.IsSuccess() {
//	        log.Printf("handler %d failed: %v", i, r.Err())
//	    }
//	}
//
// # Cancellation
//
// Nothing in this package cancels a handler. The context is handed to each
// handler unchanged. A handler that has been issued always runs to
// completion, and Join always waits for all of them.
package dispatch
