package secret

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrKeyNotFound reports that no key is registered under the requested ID.
	ErrKeyNotFound = errors.New("signing key not found")
	// ErrNoActiveKey reports that the provider has no key selected for signing.
	ErrNoActiveKey = errors.New("no active signing key")
	// ErrEmptySecret reports an attempt to register a zero-length secret.
	ErrEmptySecret = errors.New("empty signing secret")
)

// Key is an HMAC secret and the identifier stamped into the token header.
// An empty ID means the token carries no kid.
type Key struct {
	ID     string
	Secret []byte
}

// Provider resolves signing and verification keys. Implementations must be safe
// for concurrent use.
type Provider interface {
	// SigningKey returns the key new tokens are signed with.
	SigningKey(ctx context.Context) (Key, error)
	// VerificationKey returns the key registered under id. An empty id selects the
	// key used for tokens without a kid header.
	VerificationKey(ctx context.Context, id string) (Key, error)
}

func (k Key) clone() Key {
	return Key{ID: k.ID, Secret: append([]byte(nil), k.Secret...)}
}

type staticProvider struct {
	key Key
}

// Static returns a provider serving a single key without an ID.
func Static(secret []byte) Provider {
	return staticProvider{key: Key{Secret: append([]byte(nil), secret...)}}
}

func (p staticProvider) SigningKey(context.Context) (Key, error) {
	if len(p.key.Secret) == 0 {
		return Key{}, ErrEmptySecret
	}
	return p.key.clone(), nil
}

func (p staticProvider) VerificationKey(_ context.Context, id string) (Key, error) {
	if id != "" {
		return Key{}, ErrKeyNotFound
	}
	if len(p.key.Secret) == 0 {
		return Key{}, ErrEmptySecret
	}
	return p.key.clone(), nil
}

// Keyring is an in-process, rotatable set of keys. The zero value is an empty
// keyring ready for Rotate.
type Keyring struct {
	mu     sync.RWMutex
	active string
	keys   map[string][]byte
}

// NewKeyring returns an empty keyring. Call Rotate to install the first key.
func NewKeyring() *Keyring {
	return &Keyring{keys: map[string][]byte{}}
}

// Rotate registers secret under id and makes it the signing key. Previously
// registered keys stay available for verification until retired.
func (k *Keyring) Rotate(id string, secret []byte) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("key id is required")
	}
	if len(secret) == 0 {
		return ErrEmptySecret
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.keys == nil {
		k.keys = make(map[string][]byte)
	}
	k.keys[id] = append([]byte(nil), secret...)
	k.active = id
	return nil
}

// Retire removes the key registered under id. The active key cannot be retired.
func (k *Keyring) Retire(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if id == k.active {
		return errors.New("cannot retire the active key")
	}
	if _, ok := k.keys[id]; !ok {
		return ErrKeyNotFound
	}
	delete(k.keys, id)
	return nil
}

// SigningKey returns the active key.
func (k *Keyring) SigningKey(context.Context) (Key, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.active == "" {
		return Key{}, ErrNoActiveKey
	}
	return Key{ID: k.active, Secret: append([]byte(nil), k.keys[k.active]...)}, nil
}

// VerificationKey returns the key registered under id.
func (k *Keyring) VerificationKey(_ context.Context, id string) (Key, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	secret, ok := k.keys[id]
	if !ok {
		return Key{}, ErrKeyNotFound
	}
	return Key{ID: id, Secret: append([]byte(nil), secret...)}, nil
}

// Kind names the provider implementation for diagnostics: "static", "keyring",
// "redis", "none" for nil and "custom" otherwise.
func Kind(p Provider) string {
	switch p.(type) {
	case nil:
		return "none"
	case staticProvider:
		return "static"
	case *Keyring:
		return "keyring"
	case *RedisKeyring:
		return "redis"
	default:
		return "custom"
	}
}
