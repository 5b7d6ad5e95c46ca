// Package internal groups helpers that are private to goSession.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher and Sink implementations)
//   - metrics: lock-free counters and latency histograms
//   - security: configuration posture report
//   - workerpool: bounded pool for credential hashing
//
// Nothing here appears in the public goSession API except through type
// aliases declared in the root package.
package internal
