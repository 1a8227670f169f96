// Package async provides the asynchronous event system.
//
// Listeners take a context and return an error, and each one runs in its own
// goroutine. Listeners are entered in registration order: one is started only
// after the one before it is running. There are two ways to emit:
//
//   - Emit starts the listeners and returns at once. Their failures are
//     logged and passed to the error handler, never to the caller.
//   - EmitAsync starts the listeners and waits until every one of them has
//     returned. Once-listeners are removed only after that.
//
// Usage:
//
//	var Connect = event.NewKey[string]("connect")
//
//	sys := async.New(event.WithLogger(logger))
//	async.On(sys, Connect, func(ctx context.Context, user string) error {
//	    return store.Touch(ctx, user)
//	})
//
//	if err := async.EmitAsync(ctx, sys, Connect, "ada"); err != nil {
//	    // err joins one *event.ListenerError or *event.PanicError per failure
//	}
//
// A failing listener never stops the others; EmitAsync waits for all of
// them and then returns their failures joined. With event.WithTolerateFailures
// it returns nil instead. The context is passed to listeners but does not
// cancel the wait.
package async
