package password

import "fmt"

const (
	// DefaultMinPasswordBytes is applied when Policy.MinBytes is zero.
	DefaultMinPasswordBytes = 8
	// DefaultMaxPasswordBytes is applied when Policy.MaxBytes is zero. It matches
	// the bcrypt input limit so both algorithms accept the same passwords.
	DefaultMaxPasswordBytes = 72
)

// Hasher turns plaintext credentials into self-describing encoded hashes and
// verifies plaintext against them.
//
// Implementations are immutable after construction and safe for concurrent use.
type Hasher interface {
	// Algorithm returns the identifier embedded in produced hashes.
	Algorithm() string
	// Hash hashes password with the configured default cost.
	Hash(password string) (string, error)
	// HashWithCost hashes password with an explicit work factor.
	HashWithCost(password string, cost int) (string, error)
	// Verify recomputes the digest with the parameters stored in encodedHash.
	Verify(password, encodedHash string) (bool, error)
	// NeedsUpgrade reports whether encodedHash is weaker than the current configuration.
	NeedsUpgrade(encodedHash string) (bool, error)
	// Owns reports whether encodedHash was produced by this algorithm.
	Owns(encodedHash string) bool
}

// Policy bounds the raw byte length of passwords. Password processing uses raw
// string bytes exactly as provided (no Unicode normalization).
//
// There is no way to disable the minimum: a MinBytes of zero or less selects
// DefaultMinPasswordBytes, so empty passwords are never hashed. Verify treats a
// plaintext outside the bounds as a mismatch.
type Policy struct {
	MinBytes int
	MaxBytes int
}

func (p Policy) withDefaults() Policy {
	if p.MinBytes <= 0 {
		p.MinBytes = DefaultMinPasswordBytes
	}
	if p.MaxBytes <= 0 {
		p.MaxBytes = DefaultMaxPasswordBytes
	}
	return p
}

// Check returns ErrPolicy when password is outside the bounds.
func (p Policy) Check(password string) error {
	p = p.withDefaults()
	if len(password) < p.MinBytes {
		return fmt.Errorf("%w: password must be at least %d bytes", ErrPolicy, p.MinBytes)
	}
	if len(password) > p.MaxBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrPolicy, p.MaxBytes)
	}
	return nil
}
