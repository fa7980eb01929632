package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// WebSocketOption configures the WebSocket middleware.
type WebSocketOption func(*websocketMiddleware)

// WithWebSocketCheckOrigin sets the origin check function for upgrades.
func WithWebSocketCheckOrigin(fn func(r *http.Request) bool) WebSocketOption {
	return func(m *websocketMiddleware) {
		m.upgrader.CheckOrigin = fn
	}
}

// WithWebSocketBufferSizes sets the read and write buffer sizes for upgraded
// connections.
func WithWebSocketBufferSizes(read, write int) WebSocketOption {
	return func(m *websocketMiddleware) {
		m.upgrader.ReadBufferSize = read
		m.upgrader.WriteBufferSize = write
	}
}

// WebSocket returns middleware that upgrades requests for the given path to
// WebSocket connections and hands them to handler. Upgraded requests unwind
// the chain; everything else passes through untouched. The connection is
// closed when handler returns.
func WebSocket(path string, handler func(conn *websocket.Conn, req *web.Request), opts ...WebSocketOption) chain.Middleware {
	m := &websocketMiddleware{
		path:    path,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins by default
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type websocketMiddleware struct {
	chain.Base
	path     string
	handler  func(conn *websocket.Conn, req *web.Request)
	upgrader websocket.Upgrader
}

func (m *websocketMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	if req.URL.Path != m.path || !websocket.IsWebSocketUpgrade(req.Request) {
		return chain.Continue()
	}

	// Upgrade hijacks the connection through the Response. On failure it has
	// already written an HTTP error, so the payload is only for the error
	// traversal and the logs.
	conn, err := m.upgrader.Upgrade(res, req.Request, nil)
	if err != nil {
		return chain.Error(fmt.Errorf("websocket upgrade: %w", err))
	}
	defer conn.Close()

	m.handler(conn, req)
	return chain.Unwind()
}

func (m *websocketMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
