package password

import (
	"errors"
	"fmt"
)

// Registry hashes with a preferred [Hasher] and verifies against any registered one.
//
// Registry is immutable after NewRegistry and safe for concurrent use.
type Registry struct {
	preferred Hasher
	hashers   []Hasher
}

// NewRegistry returns a registry that hashes with preferred and also verifies
// hashes produced by the additional hashers.
func NewRegistry(preferred Hasher, additional ...Hasher) (*Registry, error) {
	if preferred == nil {
		return nil, errors.New("preferred hasher is required")
	}

	seen := map[string]struct{}{preferred.Algorithm(): {}}
	hashers := []Hasher{preferred}
	for _, h := range additional {
		if h == nil {
			continue
		}
		if _, dup := seen[h.Algorithm()]; dup {
			return nil, fmt.Errorf("duplicate hasher for algorithm %q", h.Algorithm())
		}
		seen[h.Algorithm()] = struct{}{}
		hashers = append(hashers, h)
	}

	return &Registry{preferred: preferred, hashers: hashers}, nil
}

// Preferred returns the hasher used for new hashes.
func (r *Registry) Preferred() Hasher {
	return r.preferred
}

// Hash hashes password with the preferred hasher and its default cost.
func (r *Registry) Hash(password string) (string, error) {
	return r.preferred.Hash(password)
}

// HashWithCost hashes password with the preferred hasher and an explicit cost.
// A cost of zero selects the hasher's default.
func (r *Registry) HashWithCost(password string, cost int) (string, error) {
	if cost == 0 {
		return r.preferred.Hash(password)
	}
	return r.preferred.HashWithCost(password, cost)
}

// Verify reports whether password matches encodedHash. Unknown, malformed or
// out-of-bounds hashes never match; the failure is reported through err for
// logging only.
func (r *Registry) Verify(password, encodedHash string) (bool, error) {
	h := r.lookup(encodedHash)
	if h == nil {
		return false, ErrUnsupportedHash
	}
	ok, err := h.Verify(password, encodedHash)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// NeedsUpgrade reports whether encodedHash should be replaced by a hash from the
// preferred hasher, either because another algorithm produced it or because its
// parameters are weaker.
func (r *Registry) NeedsUpgrade(encodedHash string) (bool, error) {
	h := r.lookup(encodedHash)
	if h == nil {
		return false, ErrUnsupportedHash
	}
	if h != r.preferred {
		return true, nil
	}
	return h.NeedsUpgrade(encodedHash)
}

func (r *Registry) lookup(encodedHash string) Hasher {
	for _, h := range r.hashers {
		if h.Owns(encodedHash) {
			return h
		}
	}
	return nil
}
