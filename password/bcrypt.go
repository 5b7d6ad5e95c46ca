package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptAlgorithmID = "2a"
	// DefaultBcryptCost is the work factor used when none is configured.
	DefaultBcryptCost = 10
	// DefaultBcryptMaxCost caps caller-requested and stored work factors.
	DefaultBcryptMaxCost = 14
)

// BcryptConfig configures a [Bcrypt] hasher.
type BcryptConfig struct {
	Cost    int
	MaxCost int
	Policy  Policy
}

// Bcrypt hashes credentials with bcrypt. Every call draws a fresh 128-bit salt.
type Bcrypt struct {
	config BcryptConfig
}

// NewBcrypt validates cfg and returns a bcrypt hasher.
func NewBcrypt(cfg BcryptConfig) (*Bcrypt, error) {
	if cfg.Cost == 0 {
		cfg.Cost = DefaultBcryptCost
	}
	if cfg.MaxCost == 0 {
		cfg.MaxCost = DefaultBcryptMaxCost
	}
	cfg.Policy = cfg.Policy.withDefaults()

	if cfg.MaxCost < bcrypt.MinCost || cfg.MaxCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt max cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > cfg.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, cfg.MaxCost)
	}
	if cfg.Policy.MaxBytes > DefaultMaxPasswordBytes {
		return nil, errors.New("bcrypt cannot hash passwords longer than 72 bytes")
	}

	return &Bcrypt{config: cfg}, nil
}

// Algorithm returns "2a".
func (b *Bcrypt) Algorithm() string {
	return bcryptAlgorithmID
}

// Hash hashes password with the configured cost.
func (b *Bcrypt) Hash(password string) (string, error) {
	return b.HashWithCost(password, b.config.Cost)
}

// HashWithCost hashes password with the given log2 work factor.
func (b *Bcrypt) HashWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > b.config.MaxCost {
		return "", fmt.Errorf("%w: bcrypt cost %d not within [%d, %d]", ErrCostOutOfRange, cost, bcrypt.MinCost, b.config.MaxCost)
	}
	if err := b.config.Policy.Check(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}

	return string(hash), nil
}

// Verify compares password against a bcrypt hash. A mismatching password is
// reported as (false, nil); any other failure carries an error.
func (b *Bcrypt) Verify(password, encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if cost > b.config.MaxCost {
		return false, fmt.Errorf("%w: stored bcrypt cost %d exceeds %d", ErrCostOutOfRange, cost, b.config.MaxCost)
	}
	if b.config.Policy.Check(password) != nil {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// NeedsUpgrade reports whether encodedHash uses a lower cost than configured.
func (b *Bcrypt) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return cost < b.config.Cost, nil
}

// Owns reports whether encodedHash carries a bcrypt prefix ($2a$, $2b$ or $2y$).
func (b *Bcrypt) Owns(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}
