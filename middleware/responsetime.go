package middleware

import (
	"time"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// ResponseTimeKey is the request store key under which the measured duration
// is kept after the exit phase.
const ResponseTimeKey = "response_time"

// ResponseTimeHeader carries the measured duration back to the client when
// the response has not been written by the time the measurement is taken.
const ResponseTimeHeader = "X-Response-Time"

// ResponseTime returns middleware that measures how long the rest of the
// chain took: the entry timestamp is captured during Enter and the delta is
// computed during Exit. The duration is stored in the request store, exposed
// through the X-Response-Time header when the response is still unwritten,
// and, when report is non-nil, passed to it. Failed requests are measured
// too, through the error traversal.
func ResponseTime(report func(req *web.Request, d time.Duration)) chain.Middleware {
	return &responseTimeMiddleware{report: report}
}

type responseTimeMiddleware struct {
	report func(req *web.Request, d time.Duration)

	// per-request
	entry time.Time
}

func (m *responseTimeMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	m.entry = time.Now()
	return chain.Continue()
}

func (m *responseTimeMiddleware) Exit(req *web.Request, res *web.Response) chain.Status {
	m.measure(req, res)
	return chain.Continue()
}

func (m *responseTimeMiddleware) OnError(req *web.Request, res *web.Response, err error) {
	m.measure(req, res)
}

func (m *responseTimeMiddleware) measure(req *web.Request, res *web.Response) {
	d := time.Since(m.entry)
	req.Set(ResponseTimeKey, d)
	if !res.Written() {
		res.Header().Set(ResponseTimeHeader, d.String())
	}
	if m.report != nil {
		m.report(req, d)
	}
}

func (m *responseTimeMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
