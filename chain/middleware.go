package chain

import "github.com/anvil-web/anvil/web"

// Middleware is a unit of request processing. A chain calls Enter on each
// linked middleware in order, then calls Exit (or OnError, when a later
// middleware failed) in reverse order on exactly the middleware whose Enter
// returned Continue.
//
// Embed Base to inherit safe defaults for Enter, Exit, and OnError, then
// override only the operations you need. Clone has no default: each
// middleware decides how its state is duplicated when the owning chain is
// cloned for a new request.
type Middleware interface {
	// Enter is called during the forward pass. It may read and mutate the
	// request and response; its Status decides whether dispatch continues,
	// unwinds, or aborts into error recovery.
	Enter(req *web.Request, res *web.Response) Status

	// Exit is called during the return pass, only if this middleware's Enter
	// returned Continue. Its return value is observed but does not change
	// the outcome already decided during the enter phase.
	Exit(req *web.Request, res *web.Response) Status

	// OnError is called during the error-recovery pass, only if this
	// middleware's Enter returned Continue, with the payload of the Error
	// status that halted the forward pass. It never resumes normal
	// processing.
	OnError(req *web.Request, res *web.Response, err error)

	// Clone returns an independent copy of the middleware. Per-request
	// mutable state (timestamps, counters) must be copied, never shared;
	// concurrency-safe shared resources such as rate limiter buckets may be
	// carried over by reference.
	Clone() Middleware
}

// Base provides no-op implementations of Enter, Exit, and OnError. Enter and
// Exit return Continue; OnError does nothing. Embed it in middleware that
// only need a subset of the operations.
type Base struct{}

// Enter returns Continue.
func (Base) Enter(*web.Request, *web.Response) Status { return Continue() }

// Exit returns Continue.
func (Base) Exit(*web.Request, *web.Response) Status { return Continue() }

// OnError does nothing.
func (Base) OnError(*web.Request, *web.Response, error) {}
