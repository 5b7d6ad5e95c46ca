// Package secret supplies the keys used to sign and verify session tokens.
//
// Keys are always passed explicitly: a [Provider] is consulted on every issue and
// every verification, and callers never receive a process-wide secret. Rotation is
// owned by the provider: [Keyring] rotates in process, [RedisKeyring] rotates through
// Redis so that every instance of a deployment observes the same active key.
//
// # What this package must NOT do
//
//   - Log or format secret bytes.
//   - Cache keys read from Redis.
//   - Import any other goSession package.
package secret
