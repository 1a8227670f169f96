package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Execute runs a handler with the given event and returns the result.
// It recovers from panics and captures timing information.
func Execute(ctx context.Context, event any, handler Handler) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
		}
	}()

	result.Error = handler.Handle(ctx, event)
	return result
}

// Sequence runs handlers one after another in the caller's goroutine and
// returns their results in order. A failing handler does not stop the ones
// after it.
func Sequence(ctx context.Context, event any, handlers []Handler) []Result {
	results := make([]Result, len(handlers))
	for i, handler := range handlers {
		results[i] = Execute(ctx, event, handler)
	}
	return results
}
