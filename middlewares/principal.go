package middlewares

import (
	"net/http"

	"github.com/arikaim/controllers/pkg/access"
)

// PrincipalFunc extracts the authenticated principal id from a request.
// An empty return means the request is anonymous.
type PrincipalFunc func(r *http.Request) string

// Principal stores the principal id resolved by fn in the request
// context so access checks and log extractors can see it. Anonymous
// requests pass through unchanged and fail any permission check.
func Principal(fn PrincipalFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := fn(r); id != "" {
				r = r.WithContext(access.WithPrincipal(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromHeader resolves the principal id from a trusted header,
// for deployments where an auth proxy terminates authentication.
func PrincipalFromHeader(header string) PrincipalFunc {
	return func(r *http.Request) string {
		return r.Header.Get(header)
	}
}
