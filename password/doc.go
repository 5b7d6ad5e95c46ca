// Package password implements credential hashing and verification.
//
// # Output format
//
// Two self-describing encodings are supported, so a stored hash never needs
// external parameters to be verified:
//
//	$2a$<cost>$<salt><digest>                                (bcrypt, modular crypt format)
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>  (argon2id, PHC format)
//
// A [Registry] holds one [Hasher] per algorithm, hashes new credentials with the
// preferred one and dispatches verification on the stored prefix. If a stored hash
// was produced with weaker parameters, [Registry.NeedsUpgrade] returns true so the
// caller can re-hash on the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing, verification and the byte-length policy only.
// Scheduling the slow work off the request path is the Engine's job.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive hashes.
//   - Import any other goSession package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
