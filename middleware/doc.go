// Package middleware exposes HTTP middleware that resolves the session cookie
// through a goSession.Engine and places the resulting AuthState in the request
// context.
//
// # Guards
//
//   - [Guard] rejects requests whose session does not resolve to an identity.
//   - [Optional] never rejects; handlers inspect the state themselves.
//
// Both record the caller's remote address with goSession.WithClientIP so audit
// events carry it.
//
// This package translates HTTP semantics into Engine calls. It does not verify
// tokens or read keys itself.
package middleware
