// Package testutil provides helpers for testing chains and middleware.
//
// Exchange builds the request/response pair a dispatch needs, backed by an
// httptest recorder for asserting on what was written:
//
//	func TestMyMiddleware(t *testing.T) {
//	    req, res, rec := testutil.Exchange("GET", "/items")
//	    c := chain.NewStack(MyMiddleware(), testutil.Terminal())
//	    status := c.Dispatch(req, res)
//	    if !status.IsUnwind() {
//	        t.Fatalf("status = %v", status)
//	    }
//	    if rec.Code != http.StatusOK {
//	        t.Errorf("code = %d", rec.Code)
//	    }
//	}
package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// Exchange returns a request/response pair for one dispatch, along with the
// recorder backing the response.
func Exchange(method, target string) (*web.Request, *web.Response, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return web.NewRequest(httptest.NewRequest(method, target, nil)), web.NewResponse(rec), rec
}

// ExchangeFor wraps an existing http.Request, for tests that need to set
// headers or a body first.
func ExchangeFor(r *http.Request) (*web.Request, *web.Response, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return web.NewRequest(r), web.NewResponse(rec), rec
}

// Terminal returns a middleware that answers every request with 200 "ok" and
// unwinds. Link it last to stand in for an application handler.
func Terminal() chain.Middleware {
	return terminal{}
}

type terminal struct{ chain.Base }

func (terminal) Enter(req *web.Request, res *web.Response) chain.Status {
	_ = res.Text(http.StatusOK, "ok")
	return chain.Unwind()
}

func (t terminal) Clone() chain.Middleware { return t }

// Failing returns a middleware whose Enter fails with err, for exercising
// error traversals.
func Failing(err error) chain.Middleware {
	return failing{err: err}
}

type failing struct {
	chain.Base
	err error
}

func (f failing) Enter(req *web.Request, res *web.Response) chain.Status {
	return chain.Error(f.err)
}

func (f failing) Clone() chain.Middleware { return f }
