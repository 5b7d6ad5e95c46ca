package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable reports a Redis failure other than a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

const defaultRedisPrefix = "gosession:signing"

const retireKeyScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return -1
end
return redis.call("HDEL", KEYS[2], ARGV[1])
`

var retireKeyLua = redis.NewScript(retireKeyScript)

// RedisKeyring stores signing keys in Redis and reads them on every call, so a
// rotation performed by any instance is observed by all of them on the next request.
//
// Layout: <prefix>:active holds the active key ID, <prefix>:keys is a hash from key ID
// to raw secret bytes.
type RedisKeyring struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisKeyring returns a keyring backed by client. An empty prefix selects
// "gosession:signing".
func NewRedisKeyring(client redis.UniversalClient, prefix string) (*RedisKeyring, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisKeyring{redis: client, prefix: prefix}, nil
}

func (k *RedisKeyring) activeKey() string {
	return k.prefix + ":active"
}

func (k *RedisKeyring) keysKey() string {
	return k.prefix + ":keys"
}

// Rotate stores secret under id and activates it in one transaction.
func (k *RedisKeyring) Rotate(ctx context.Context, id string, secret []byte) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("key id is required")
	}
	if len(secret) == 0 {
		return ErrEmptySecret
	}

	_, err := k.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k.keysKey(), id, secret)
		pipe.Set(ctx, k.activeKey(), id, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: rotate: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Retire deletes the key stored under id. Retiring the active key is refused.
func (k *RedisKeyring) Retire(ctx context.Context, id string) error {
	res, err := retireKeyLua.Run(ctx, k.redis, []string{k.activeKey(), k.keysKey()}, id).Int64()
	if err != nil {
		return fmt.Errorf("%w: retire: %v", ErrRedisUnavailable, err)
	}
	switch res {
	case -1:
		return errors.New("cannot retire the active key")
	case 0:
		return ErrKeyNotFound
	default:
		return nil
	}
}

// KeyIDs lists the IDs of every stored key.
func (k *RedisKeyring) KeyIDs(ctx context.Context) ([]string, error) {
	ids, err := k.redis.HKeys(ctx, k.keysKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrRedisUnavailable, err)
	}
	return ids, nil
}

// SigningKey reads the active key ID and its secret.
func (k *RedisKeyring) SigningKey(ctx context.Context) (Key, error) {
	id, err := k.redis.Get(ctx, k.activeKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Key{}, ErrNoActiveKey
		}
		return Key{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return k.VerificationKey(ctx, id)
}

// VerificationKey reads the secret stored under id.
func (k *RedisKeyring) VerificationKey(ctx context.Context, id string) (Key, error) {
	if id == "" {
		return Key{}, ErrKeyNotFound
	}
	secret, err := k.redis.HGet(ctx, k.keysKey(), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Key{}, ErrKeyNotFound
		}
		return Key{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(secret) == 0 {
		return Key{}, ErrEmptySecret
	}
	return Key{ID: id, Secret: secret}, nil
}
