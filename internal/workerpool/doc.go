// Package workerpool bounds how many CPU-heavy jobs run at once.
//
// Credential hashing is deliberately slow. Running it through a [Pool] keeps a
// burst of logins from saturating every core while request handlers wait on
// their own context.
//
// # What this package must NOT do
//
//   - Retry jobs or apply its own timeouts. Deadlines belong to the caller's context.
//   - Import goSession or any sibling package.
package workerpool
