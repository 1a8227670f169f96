package dispatch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch is a set of handler invocations running concurrently.
type Batch struct {
	results []Result
	done    chan struct{}
}

// Start issues every handler in its own goroutine and returns without
// waiting for them to finish. Handlers are entered in slice order: the
// goroutine for handler i+1 is not started until handler i is running, so
// the part of each handler that runs before it blocks starts in order
// while the handlers themselves still overlap.
//
// A positive limit caps how many handlers run at once. With a limit the
// handlers are issued from a separate goroutine so Start itself never
// waits on a running handler.
func Start(ctx context.Context, limit int, event any, handlers []Handler) *Batch {
	b := &Batch{
		results: make([]Result, len(handlers)),
		done:    make(chan struct{}),
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	issue := func() {
		for i, handler := range handlers {
			i, handler := i, handler
			entered := make(chan struct{})
			g.Go(func() error {
				close(entered)
				// Failures are carried in the Result, never through the group,
				// so one failure cannot cut the join short.
				b.results[i] = Execute(ctx, event, handler)
				return nil
			})
			// Handler i is entered before handler i+1 is issued.
			<-entered
		}
	}
	wait := func() {
		_ = g.Wait()
		close(b.done)
	}

	if limit > 0 {
		go func() {
			issue()
			wait()
		}()
	} else {
		issue()
		go wait()
	}

	return b
}

// Wait blocks until every handler in the batch has returned and returns
// their results in issue order.
func (b *Batch) Wait() []Result {
	<-b.done
	return b.results
}

// Done returns a channel that is closed once every handler has returned.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Len returns the number of handlers in the batch.
func (b *Batch) Len() int {
	return len(b.results)
}

// Join runs every handler concurrently and waits for all of them to settle.
func Join(ctx context.Context, limit int, event any, handlers []Handler) []Result {
	return Start(ctx, limit, event, handlers).Wait()
}
