package secret

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestRedisKeyringRotation(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)

	k, err := NewRedisKeyring(rdb, "test:keys")
	if err != nil {
		t.Fatalf("NewRedisKeyring error: %v", err)
	}

	if _, err := k.SigningKey(ctx); !errors.Is(err, ErrNoActiveKey) {
		t.Fatalf("expected ErrNoActiveKey, got %v", err)
	}

	if err := k.Rotate(ctx, "2026-01", []byte("first-secret")); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if err := k.Rotate(ctx, "2026-02", []byte("second-secret")); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}

	active, err := k.SigningKey(ctx)
	if err != nil {
		t.Fatalf("SigningKey error: %v", err)
	}
	if active.ID != "2026-02" || string(active.Secret) != "second-secret" {
		t.Fatalf("unexpected active key %+v", active)
	}

	old, err := k.VerificationKey(ctx, "2026-01")
	if err != nil || string(old.Secret) != "first-secret" {
		t.Fatalf("expected old key available, got %+v err=%v", old, err)
	}

	ids, err := k.KeyIDs(ctx)
	if err != nil || len(ids) != 2 {
		t.Fatalf("expected two key ids, got %v err=%v", ids, err)
	}
}

func TestRedisKeyringRetire(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	k, _ := NewRedisKeyring(rdb, "")

	if err := k.Rotate(ctx, "a", []byte("secret-a")); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if err := k.Rotate(ctx, "b", []byte("secret-b")); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}

	if err := k.Retire(ctx, "b"); err == nil {
		t.Fatal("expected retiring the active key to fail")
	}
	if err := k.Retire(ctx, "a"); err != nil {
		t.Fatalf("Retire error: %v", err)
	}
	if err := k.Retire(ctx, "a"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if _, err := k.VerificationKey(ctx, "a"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected retired key missing, got %v", err)
	}
}

func TestRedisKeyringReadsEveryCall(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	k, _ := NewRedisKeyring(rdb, "live")

	if err := k.Rotate(ctx, "v1", []byte("one")); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}

	// Simulate another instance activating a different key.
	mr.HSet("live:keys", "v2", "two")
	if err := mr.Set("live:active", "v2"); err != nil {
		t.Fatalf("miniredis set: %v", err)
	}

	active, err := k.SigningKey(ctx)
	if err != nil || active.ID != "v2" || string(active.Secret) != "two" {
		t.Fatalf("expected externally rotated key, got %+v err=%v", active, err)
	}
}

func TestRedisKeyringUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	k, _ := NewRedisKeyring(rdb, "down")
	mr.Close()

	if _, err := k.SigningKey(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
