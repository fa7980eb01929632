package web

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
)

// Response wraps an http.ResponseWriter and tracks the status code and the
// number of bytes written. Middleware write to it during the enter phase and
// inspect it during the exit phase; the server layer checks Written after
// dispatch to decide whether a default response is needed.
type Response struct {
	w       http.ResponseWriter
	status  int
	size    int
	written bool
}

// Compile-time interface checks.
var (
	_ http.ResponseWriter = (*Response)(nil)
	_ http.Flusher        = (*Response)(nil)
	_ http.Hijacker       = (*Response)(nil)
)

// NewResponse wraps w for processing by a chain.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Header returns the header map that will be sent with the response.
func (r *Response) Header() http.Header {
	return r.w.Header()
}

// WriteHeader sends the response header with the given status code.
// Calls after the first write are ignored.
func (r *Response) WriteHeader(status int) {
	if r.written {
		return
	}
	r.status = status
	r.written = true
	r.w.WriteHeader(status)
}

// Write writes b to the response body, sending a 200 header first if no
// status has been written yet.
func (r *Response) Write(b []byte) (int, error) {
	if !r.written {
		r.written = true
		r.status = http.StatusOK
	}
	n, err := r.w.Write(b)
	r.size += n
	return n, err
}

// Status returns the status code of the response, or 200 if nothing has been
// written yet.
func (r *Response) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Size returns the number of body bytes written so far.
func (r *Response) Size() int {
	return r.size
}

// Written reports whether the response header or body has been written.
func (r *Response) Written() bool {
	return r.written
}

// Text writes a plain text response with the given status code.
func (r *Response) Text(status int, text string) error {
	if !r.written {
		r.Header().Set("Content-Type", "text/plain; charset=utf-8")
		r.WriteHeader(status)
	}
	_, err := r.Write([]byte(text))
	return err
}

// JSON writes v as a JSON response with the given status code.
func (r *Response) JSON(status int, v any) error {
	if !r.written {
		r.Header().Set("Content-Type", "application/json; charset=utf-8")
		r.WriteHeader(status)
	}
	return json.NewEncoder(r).Encode(v)
}

// Unwrap returns the underlying http.ResponseWriter.
// This enables http.ResponseController to reach the original writer.
func (r *Response) Unwrap() http.ResponseWriter {
	return r.w
}

// Flush implements http.Flusher by delegating to the underlying writer.
func (r *Response) Flush() {
	_ = http.NewResponseController(r.w).Flush()
}

// Hijack implements http.Hijacker, letting a middleware take over the
// connection (for example to upgrade it to a WebSocket).
func (r *Response) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	conn, rw, err := http.NewResponseController(r.w).Hijack()
	if err == nil {
		// The connection no longer belongs to the HTTP layer; anything the
		// hijacker sends counts as a written response.
		r.written = true
	}
	return conn, rw, err
}
