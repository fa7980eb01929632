package web

import "net/http"

// Request wraps an incoming HTTP request with a per-request key/value store.
// The store lives for exactly one dispatch and is how middleware communicate
// results to middleware later in the chain.
type Request struct {
	*http.Request

	values map[string]any
}

// NewRequest wraps r for processing by a chain.
func NewRequest(r *http.Request) *Request {
	return &Request{Request: r}
}

// Set stores a value under key for the remainder of the request.
func (r *Request) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
}

// Get returns the value stored under key and whether it was present.
func (r *Request) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// GetString returns the value stored under key as a string, or "" if the key
// is absent or holds a non-string value.
func (r *Request) GetString(key string) string {
	s, _ := r.values[key].(string)
	return s
}

// MustGet returns the value stored under key and panics if it is absent.
// Use it for values an earlier middleware is guaranteed to have set.
func (r *Request) MustGet(key string) any {
	v, ok := r.values[key]
	if !ok {
		panic("web: no value stored for key " + key)
	}
	return v
}
