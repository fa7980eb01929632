package chain

import "github.com/anvil-web/anvil/web"

// Stack is the default Chain. It runs each request through all linked
// middleware in order. When a middleware returns Unwind, the request is
// passed back up through the middleware entered so far; when one returns
// Error, the same middleware are revisited through OnError instead.
type Stack struct {
	// stack holds the middleware in link order.
	stack []Middleware
	// mark records how far the last enter phase got and how it ended. It is
	// recomputed at the start of every dispatch and is valid input only to
	// the phase that immediately follows.
	mark traversal
}

// traversal is the marker left behind by the enter phase.
type traversal struct {
	mode  traversalMode
	index int
}

type traversalMode uint8

const (
	// unhandled: no middleware stopped the forward pass.
	unhandled traversalMode = iota
	// unwound: the middleware at index returned Unwind.
	unwound
	// errored: the middleware at index returned Error.
	errored
)

// NewStack returns an empty Stack. Middleware linked afterwards are invoked
// in link order.
func NewStack(middleware ...Middleware) *Stack {
	return &Stack{stack: middleware}
}

// Link appends m to the stack.
func (c *Stack) Link(m Middleware) {
	c.stack = append(c.stack, m)
}

// Dispatch runs the enter phase, then either the error traversal (when the
// enter phase produced an Error) or the exit traversal. The enter-phase
// status is returned unchanged.
func (c *Stack) Dispatch(req *web.Request, res *web.Response) Status {
	status := c.enter(req, res)
	if status.IsError() {
		c.rescue(req, res, status.Err())
	} else {
		_ = c.exit(req, res)
	}
	return status
}

// enter walks the stack in link order, recording in the marker exactly how
// far it got so the return pass can take the same path in reverse.
func (c *Stack) enter(req *web.Request, res *web.Response) Status {
	c.mark = traversal{mode: unhandled}

	for i, m := range c.stack {
		switch status := m.Enter(req, res); {
		case status.IsUnwind():
			c.mark = traversal{mode: unwound, index: i}
			return status
		case status.IsError():
			c.mark = traversal{mode: errored, index: i}
			return status
		}
	}

	return Continue()
}

// exit revisits, in reverse order, the middleware whose Enter returned
// Continue. Exit return values are observed but never alter the outcome
// already decided by the enter phase, so exit always returns Continue.
//
// Calling exit after an errored enter phase is a programmer error and
// panics: the error traversal is the only valid follow-up to an Error.
func (c *Stack) exit(req *web.Request, res *web.Response) Status {
	switch c.mark.mode {
	case unwound:
		for i := c.mark.index - 1; i >= 0; i-- {
			_ = c.stack[i].Exit(req, res)
		}
	case unhandled:
		for i := len(c.stack) - 1; i >= 0; i-- {
			_ = c.stack[i].Exit(req, res)
		}
	case errored:
		panic("chain: exit traversal on a Stack whose enter phase errored")
	}

	return Continue()
}

// rescue revisits, in reverse order, the middleware whose Enter returned
// Continue before the failure, passing each the same payload. It is valid
// only immediately after an errored enter phase and panics otherwise.
func (c *Stack) rescue(req *web.Request, res *web.Response, err error) {
	if c.mark.mode != errored {
		panic("chain: error traversal on a Stack that did not error")
	}
	for i := c.mark.index - 1; i >= 0; i-- {
		c.stack[i].OnError(req, res, err)
	}
}

// Clone returns an independent Stack whose middleware are themselves cloned,
// so per-request middleware state is never shared across concurrently
// dispatched requests.
func (c *Stack) Clone() Chain {
	dup := &Stack{stack: make([]Middleware, len(c.stack))}
	for i, m := range c.stack {
		dup.stack[i] = m.Clone()
	}
	return dup
}

// Len returns the number of linked middleware.
func (c *Stack) Len() int {
	return len(c.stack)
}
