package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("middleware-test-secret")

func newTestEngine(t *testing.T) *goSession.Engine {
	t.Helper()

	cfg := goSession.DefaultConfig()
	cfg.Password.BcryptCost = bcrypt.MinCost
	engine, err := goSession.New().WithConfig(cfg).WithSigningSecret(testSecret).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func sessionRequest(t *testing.T, engine *goSession.Engine) *http.Request {
	t.Helper()

	token, _, err := engine.IssueSession(context.Background(), goSession.Claims{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(engine.BuildSessionCookie(token))
	return req
}

func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(id.Subject))
	})
}

func TestGuardAllowsValidSession(t *testing.T) {
	engine := newTestEngine(t)
	rec := httptest.NewRecorder()

	Guard(engine)(identityEcho(t)).ServeHTTP(rec, sessionRequest(t, engine))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user@example.com" {
		t.Fatalf("unexpected subject %q", rec.Body.String())
	}
}

func TestGuardRejectsMissingCookie(t *testing.T) {
	engine := newTestEngine(t)
	rec := httptest.NewRecorder()
	called := false

	Guard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	if called {
		t.Fatal("handler must not run without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("anonymous request must not receive a clearing cookie")
	}
}

func TestGuardClearsRejectedCookie(t *testing.T) {
	engine := newTestEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: engine.CookieName(), Value: "not.a.token"})
	rec := httptest.NewRecorder()

	Guard(engine)(identityEcho(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != engine.CookieName() || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected clearing cookie, got %+v", cookies)
	}
}

func TestGuardNilEngine(t *testing.T) {
	rec := httptest.NewRecorder()
	Guard(nil)(identityEcho(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalPassesAnonymous(t *testing.T) {
	engine := newTestEngine(t)
	rec := httptest.NewRecorder()
	var state goSession.AuthState

	Optional(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, _ = AuthStateFromContext(r.Context())
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if state.Status != goSession.StatusUnauthenticated {
		t.Fatalf("expected unauthenticated state, got %v", state.Status)
	}
}

func TestOptionalAttachesIdentity(t *testing.T) {
	engine := newTestEngine(t)
	rec := httptest.NewRecorder()

	Optional(engine)(identityEcho(t)).ServeHTTP(rec, sessionRequest(t, engine))

	if rec.Body.String() != "user@example.com" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestRemoteIP(t *testing.T) {
	cases := map[string]string{
		"192.0.2.1:1234": "192.0.2.1",
		"[::1]:80":       "::1",
		"192.0.2.9":      "192.0.2.9",
		"":               "",
	}
	for in, want := range cases {
		if got := remoteIP(in); got != want {
			t.Fatalf("remoteIP(%q) = %q, want %q", in, got, want)
		}
	}
}
