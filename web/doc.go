// Package web provides the request and response representations that flow
// through a middleware chain.
//
// Request wraps the incoming *http.Request and adds a per-request key/value
// store. The store is the channel middleware use to hand results to later
// middleware and to the handler that eventually writes the response:
//
//	func (m *authMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
//	    user, err := m.authenticate(req)
//	    if err != nil {
//	        return chain.Error(err)
//	    }
//	    req.Set("user", user)
//	    return chain.Continue()
//	}
//
// Response wraps the http.ResponseWriter and tracks what has been written so
// far. Middleware can inspect the status, size, and written state during the
// exit phase:
//
//	func (m *auditMiddleware) Exit(req *web.Request, res *web.Response) chain.Status {
//	    log.Printf("%s %s -> %d (%d bytes)", req.Method, req.URL.Path, res.Status(), res.Size())
//	    return chain.Continue()
//	}
//
// Response also implements http.Flusher and http.Hijacker when the underlying
// writer supports them, enabling streaming responses and protocol upgrades.
package web
