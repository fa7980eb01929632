package chain

import "github.com/anvil-web/anvil/web"

// Chain coordinates middleware to ensure they are resolved and called in the
// right order. The concrete Stack implementation suits almost every use;
// custom implementations are only needed for unusual behavior such as
// enhanced debug logging or alternative middleware storage.
//
// The dispatch protocol every implementation must follow:
//
//  1. Run the enter phase across the linked middleware.
//  2. If it produced an Error status, run the error traversal with that
//     payload; otherwise run the exit traversal.
//  3. Return the enter-phase status to the caller unchanged. The exit
//     traversal cannot override it, and error payloads are never wrapped
//     or swallowed.
type Chain interface {
	// Link appends a middleware to the end of the chain. Order is
	// significant and preserved: middleware entered first are exited last.
	// The chain takes ownership of the middleware instance.
	Link(m Middleware)

	// Dispatch runs one full request-processing cycle. It is called exactly
	// once per request, on a chain instance not shared with any other
	// in-flight request.
	Dispatch(req *web.Request, res *web.Response) Status

	// Clone returns an independent duplicate of the chain whose linked
	// middleware are themselves cloned. One configured chain acts as a
	// template; each concurrent request dispatches on its own clone.
	Clone() Chain
}
