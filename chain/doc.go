// Package chain implements the middleware dispatch engine at the heart of
// anvil.
//
// A chain coordinates an ordered sequence of middleware for one request. Each
// middleware exposes three operations: Enter, called on the way in; Exit,
// called on the way back out; and OnError, called instead of Exit when a
// later middleware failed. Dispatch runs the enter phase forward through the
// stack, then unwinds symmetrically: exactly the middleware that returned
// Continue on the way in are revisited, in reverse order.
//
// # Status
//
// Enter returns a Status that steers the traversal:
//
//   - Continue(): hand the request to the next middleware.
//   - Unwind(): this middleware has handled the request; stop the forward
//     pass and unwind.
//   - Error(err): a failure occurred; stop the forward pass and run the
//     error traversal instead of the exit traversal.
//
// # Writing middleware
//
// Embed Base to pick up no-op defaults and override only what you need.
// Every middleware also implements Clone, which must copy per-request
// mutable state so that one configured chain can safely back many
// concurrent requests:
//
//	type timer struct {
//	    chain.Base
//	    start time.Time
//	}
//
//	func (t *timer) Enter(req *web.Request, res *web.Response) chain.Status {
//	    t.start = time.Now()
//	    return chain.Continue()
//	}
//
//	func (t *timer) Exit(req *web.Request, res *web.Response) chain.Status {
//	    log.Printf("request took %s", time.Since(t.start))
//	    return chain.Continue()
//	}
//
//	func (t *timer) Clone() chain.Middleware {
//	    dup := *t
//	    return &dup
//	}
//
// # Concurrency
//
// A chain instance is single-use per dispatch: the traversal marker and any
// per-request middleware state belong to whichever dispatch is currently
// running. Callers that serve concurrent requests must Clone the configured
// chain once per request; the clones are fully independent. No locking
// happens inside the chain itself.
package chain
