package jwt

import "errors"

var (
	// ErrMalformedToken reports a token that is not three decodable segments.
	ErrMalformedToken = errors.New("malformed token")
	// ErrSignatureMismatch reports a MAC mismatch, a refused algorithm or a key ID mismatch.
	ErrSignatureMismatch = errors.New("token signature mismatch")
	// ErrExpired reports a token whose exp is not after the current time.
	ErrExpired = errors.New("token expired")
	// ErrClaimsInvalid reports issuer, audience, nbf or iat violations.
	ErrClaimsInvalid = errors.New("token claims invalid")
	// ErrEmptySecret reports a signing or verification call without key material.
	ErrEmptySecret = errors.New("empty token secret")
)
