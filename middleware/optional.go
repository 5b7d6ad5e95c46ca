package middleware

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// Optional returns middleware that resolves the session and always calls next.
// Anonymous and rejected callers reach the handler with a non-authenticated
// state in the context.
func Optional(engine *goSession.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				next.ServeHTTP(w, r)
				return
			}
			r, _ = resolve(engine, r)
			next.ServeHTTP(w, r)
		})
	}
}
