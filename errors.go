package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/jwt"
)

var (
	// ErrHashingFailure reports that randomness or the hashing primitive was unavailable.
	ErrHashingFailure = errors.New("credential hashing failure")
	// ErrPasswordPolicy reports a credential outside the configured length bounds.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrInvalidCost reports a requested work factor outside the configured bounds.
	ErrInvalidCost = errors.New("invalid hashing cost")
	// ErrInvalidCredentials is returned by Login for an unknown subject and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRegistration reports a registration request without an identifier.
	ErrInvalidRegistration = errors.New("invalid registration request")
	// ErrUnauthorized is the single user-visible rejection for any failed session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEngineNotReady is returned by methods called on a nil or closed Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrKeyUnavailable reports that no signing or verification key could be obtained.
	ErrKeyUnavailable = errors.New("signing key unavailable")
	// ErrInvalidConfig reports an unusable configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Token verification failures, re-exported from the jwt package.
var (
	ErrMalformedToken    = jwt.ErrMalformedToken
	ErrSignatureMismatch = jwt.ErrSignatureMismatch
	ErrExpired           = jwt.ErrExpired
	ErrClaimsInvalid     = jwt.ErrClaimsInvalid
)
