package password

import "errors"

var (
	// ErrHashingFailure reports that randomness or the hashing primitive was unavailable.
	ErrHashingFailure = errors.New("password hashing failure")
	// ErrPolicy reports a password outside the configured byte-length bounds.
	ErrPolicy = errors.New("password policy violation")
	// ErrCostOutOfRange reports a requested work factor outside the configured bounds.
	ErrCostOutOfRange = errors.New("password cost out of range")
	// ErrUnsupportedHash reports an encoded hash no registered hasher understands.
	ErrUnsupportedHash = errors.New("unsupported password hash")
	// ErrMalformedHash reports an encoded hash that cannot be decoded.
	ErrMalformedHash = errors.New("malformed password hash")
)
