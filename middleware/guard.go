package middleware

import (
	"context"
	"net"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/cookie"
)

type authStateContextKey struct{}

// AuthStateFromContext returns the state stored by Guard or Optional.
func AuthStateFromContext(ctx context.Context) (goSession.AuthState, bool) {
	state, ok := ctx.Value(authStateContextKey{}).(goSession.AuthState)
	return state, ok
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*goSession.Identity, bool) {
	state, ok := AuthStateFromContext(ctx)
	if !ok || !state.Authenticated() {
		return nil, false
	}
	return state.Identity, true
}

// Guard returns middleware that answers 401 unless the session cookie resolves
// to an authenticated identity. Rejected sessions also get a clearing cookie.
func Guard(engine *goSession.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			r, state := resolve(engine, r)
			if !state.Authenticated() {
				if state.Status == goSession.StatusRejected {
					http.SetCookie(w, engine.ClearSessionCookie())
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolve(engine *goSession.Engine, r *http.Request) (*http.Request, goSession.AuthState) {
	ctx := r.Context()
	if ip := remoteIP(r.RemoteAddr); ip != "" {
		ctx = goSession.WithClientIP(ctx, ip)
	}

	state := engine.ResolveIdentity(ctx, cookie.Incoming(r))
	ctx = context.WithValue(ctx, authStateContextKey{}, state)
	return r.WithContext(ctx), state
}

func remoteIP(addr string) string {
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
