package middleware

import (
	"github.com/google/uuid"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// RequestIDKey is the request store key under which the request ID is kept.
const RequestIDKey = "request_id"

// RequestIDHeader is the header used to receive and echo request IDs.
const RequestIDHeader = "X-Request-ID"

// RequestID returns middleware that assigns each request a unique ID.
// An ID already present in the X-Request-ID header is preserved; otherwise a
// new one is generated. The ID is stored in the request store and echoed in
// the response header.
func RequestID() chain.Middleware {
	return RequestIDWithGenerator(uuid.NewString)
}

// RequestIDWithGenerator returns request ID middleware using a custom ID
// generator.
func RequestIDWithGenerator(generator func() string) chain.Middleware {
	return &requestIDMiddleware{generator: generator}
}

type requestIDMiddleware struct {
	chain.Base
	generator func() string
}

func (m *requestIDMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = m.generator()
	}
	req.Set(RequestIDKey, id)
	res.Header().Set(RequestIDHeader, id)
	return chain.Continue()
}

func (m *requestIDMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
