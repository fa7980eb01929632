package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/anvil-web/anvil/chain"
	"github.com/anvil-web/anvil/web"
)

// UserKey is the request store key under which the authenticated user name
// is stored.
const UserKey = "user"

// BasicAuth returns middleware that enforces HTTP basic authentication.
// Requests failing validation receive a 401 with a WWW-Authenticate
// challenge and unwind the chain; on success the user name is stored in the
// request store under UserKey.
func BasicAuth(realm string, validate func(user, pass string) bool) chain.Middleware {
	if realm == "" {
		realm = "Restricted"
	}
	return &basicAuthMiddleware{realm: realm, validate: validate}
}

// BasicAuthSimple returns basic auth middleware accepting a single
// user/password pair, compared in constant time.
func BasicAuthSimple(user, pass string) chain.Middleware {
	return BasicAuth("", func(u, p string) bool {
		return subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1 &&
			subtle.ConstantTimeCompare([]byte(p), []byte(pass)) == 1
	})
}

type basicAuthMiddleware struct {
	chain.Base
	realm    string
	validate func(user, pass string) bool
}

func (m *basicAuthMiddleware) Enter(req *web.Request, res *web.Response) chain.Status {
	user, pass, ok := req.BasicAuth()
	if !ok || !m.validate(user, pass) {
		res.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
		_ = res.Text(http.StatusUnauthorized, "unauthorized")
		return chain.Unwind()
	}
	req.Set(UserKey, user)
	return chain.Continue()
}

func (m *basicAuthMiddleware) Clone() chain.Middleware {
	dup := *m
	return &dup
}
