package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/testutil"
)

func TestRequestID(t *testing.T) {
	t.Run("generates an ID and echoes it", func(t *testing.T) {
		req, res, rec := testutil.Exchange("GET", "/")

		c := chain.NewStack(RequestID(), testutil.Terminal())
		_ = c.Dispatch(req, res)

		id := req.GetString(RequestIDKey)
		if id == "" {
			t.Fatal("no request ID stored")
		}
		if got := rec.Header().Get(RequestIDHeader); got != id {
			t.Errorf("response header = %q, want %q", got, id)
		}
	})

	t.Run("preserves an incoming ID", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(RequestIDHeader, "upstream-7")
		req, res, rec := testutil.ExchangeFor(r)

		c := chain.NewStack(RequestID(), testutil.Terminal())
		_ = c.Dispatch(req, res)

		if got := req.GetString(RequestIDKey); got != "upstream-7" {
			t.Errorf("stored ID = %q, want upstream-7", got)
		}
		if got := rec.Header().Get(RequestIDHeader); got != "upstream-7" {
			t.Errorf("echoed ID = %q, want upstream-7", got)
		}
	})

	t.Run("custom generator", func(t *testing.T) {
		req, res, _ := testutil.Exchange("GET", "/")
		c := chain.NewStack(RequestIDWithGenerator(func() string { return "fixed" }), testutil.Terminal())
		_ = c.Dispatch(req, res)

		if got := req.GetString(RequestIDKey); got != "fixed" {
			t.Errorf("stored ID = %q, want fixed", got)
		}
	})

	t.Run("distinct requests get distinct IDs", func(t *testing.T) {
		tmpl := chain.NewStack(RequestID(), testutil.Terminal())

		req1, res1, _ := testutil.Exchange("GET", "/")
		_ = tmpl.Clone().Dispatch(req1, res1)
		req2, res2, _ := testutil.Exchange("GET", "/")
		_ = tmpl.Clone().Dispatch(req2, res2)

		if req1.GetString(RequestIDKey) == req2.GetString(RequestIDKey) {
			t.Error("two requests received the same ID")
		}
	})
}
