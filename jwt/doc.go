// Package jwt issues and verifies HMAC-signed session tokens.
//
// Tokens use the compact three-segment form header.payload.signature, each segment
// base64url without padding. Verification checks the MAC over the first two segments
// before the payload is decoded, and refuses tokens whose header declares "none" or
// any algorithm other than the configured one.
//
// Signing keys are never held by a [Codec]; every call receives a [secret.Key].
package jwt
