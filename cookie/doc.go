// Package cookie packages session tokens into HTTP cookie directives and reads
// them back from incoming requests.
//
// Every directive carries HttpOnly, and Secure unless [Config.Insecure] is set.
// A directive never outlives the token it
// carries: a ttl below one second yields a cookie that expires immediately.
//
// # What this package must NOT do
//
//   - Verify tokens. Values read from requests are opaque strings.
//   - Write responses. Callers pass directives to [net/http.SetCookie].
package cookie
