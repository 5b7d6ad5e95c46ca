// Package goSession provides credential hashing and cookie-carried, HMAC-signed
// session tokens for request-handling layers.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// A typical flow:
//
//	engine, err := goSession.New().
//		WithConfig(goSession.DefaultConfig()).
//		WithSigningSecret(secret).
//		Build()
//
//	// registration
//	res, err := engine.Register(ctx, goSession.RegisterRequest{Email: email, Password: pw})
//	// persist res.PasswordHash; set res.Cookie when auto-login is on
//
//	// login
//	out, err := engine.Login(ctx, record, pw) // record is nil when the store has no match
//	http.SetCookie(w, out.Cookie)
//
//	// every request
//	state := engine.ResolveRequest(r)
//	if err := state.Err(); err != nil { /* 401 */ }
//
//	// logout
//	http.SetCookie(w, engine.Logout(ctx, cookie.Incoming(r)))
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Engine], [Builder], [Config], and value types
// ([AuthState], [Identity], [MetricsSnapshot]). Hashing lives in password/, token encoding in
// jwt/, key providers in secret/ and cookie packaging in cookie/. Worker pooling, audit
// dispatch and metric storage live under internal/.
//
// # What this package must NOT do
//
//   - Persist credentials or talk to the caller's user store.
//   - Log plaintext credentials, hashes or key material.
//   - Reveal rejection reasons to end users: [AuthState.Err] is always [ErrUnauthorized].
//   - Import any sub-package that re-imports goSession (no import cycles).
package goSession
