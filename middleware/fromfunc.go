package middleware

import (
	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// Func adapts a bare function to the enter operation of the middleware
// capability. Exit and OnError are no-ops.
type Func func(req *web.Request, res *web.Response) chain.Status

// FromFunc wraps fn as a Middleware.
func FromFunc(fn func(req *web.Request, res *web.Response) chain.Status) chain.Middleware {
	return Func(fn)
}

// Enter calls f.
func (f Func) Enter(req *web.Request, res *web.Response) chain.Status {
	return f(req, res)
}

// Exit returns Continue.
func (f Func) Exit(*web.Request, *web.Response) chain.Status {
	return chain.Continue()
}

// OnError does nothing.
func (f Func) OnError(*web.Request, *web.Response, error) {}

// Clone returns f itself; a bare function carries no per-request state.
func (f Func) Clone() chain.Middleware { return f }

// Funcs adapts up to three bare functions to the full middleware capability.
// Nil fields fall back to the no-op defaults.
type Funcs struct {
	Enter   func(req *web.Request, res *web.Response) chain.Status
	Exit    func(req *web.Request, res *web.Response) chain.Status
	OnError func(req *web.Request, res *web.Response, err error)
}

// FromFuncs wraps fns as a Middleware.
func FromFuncs(fns Funcs) chain.Middleware { return &funcsMiddleware{fns: fns} }

type funcsMiddleware struct {
	fns Funcs
}

func (m *funcsMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	if m.fns.Enter == nil {
		return chain.Continue()
	}
	return m.fns.Enter(req, res)
}

func (m *funcsMiddleware) Exit(req *web.Request, res *web.Response) chain.Status {
	if m.fns.Exit == nil {
		return chain.Continue()
	}
	return m.fns.Exit(req, res)
}

func (m *funcsMiddleware) OnError(req *web.Request, res *web.Response, err error) {
	if m.fns.OnError != nil {
		m.fns.OnError(req, res, err)
	}
}

func (m *funcsMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
