package goSession

import (
	"context"
	"testing"

	"github.com/MrEthical07/goSession/secret"
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
	})
	return mr, rdb
}

func TestRedisKeyRotationKeepsOlderTokensUntilRetired(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	keys, err := secret.NewRedisKeyring(rdb, "test:signing")
	if err != nil {
		t.Fatalf("NewRedisKeyring failed: %v", err)
	}
	if err := keys.Rotate(ctx, "v1", []byte("first-secret")); err != nil {
		t.Fatalf("Rotate v1 failed: %v", err)
	}

	engine := buildTestEngine(t, testConfig(), keys, nil, nil)
	record := &CredentialRecord{Subject: "u1", PasswordHash: mustHash(t, engine, "correct-horse")}

	first, err := engine.Login(ctx, record, "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := keys.Rotate(ctx, "v2", []byte("second-secret")); err != nil {
		t.Fatalf("Rotate v2 failed: %v", err)
	}
	second, err := engine.Login(ctx, record, "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	for name, login := range map[string]*LoginResult{"first": first, "second": second} {
		if s := engine.ResolveIdentity(ctx, cookiesOf("session", login.Token)); !s.Authenticated() {
			t.Fatalf("%s token: expected Authenticated, got %+v", name, s)
		}
	}

	kid, err := engine.codec.KeyID(second.Token)
	if err != nil || kid != "v2" {
		t.Fatalf("expected new tokens signed with v2, got %q, %v", kid, err)
	}

	if err := keys.Retire(ctx, "v1"); err != nil {
		t.Fatalf("Retire v1 failed: %v", err)
	}
	s := engine.ResolveIdentity(ctx, cookiesOf("session", first.Token))
	if s.Status != StatusRejected || s.Reason != ReasonSignatureMismatch {
		t.Fatalf("expected retired key to reject, got %+v", s)
	}
	if s := engine.ResolveIdentity(ctx, cookiesOf("session", second.Token)); !s.Authenticated() {
		t.Fatalf("expected active key to verify, got %+v", s)
	}
}

func TestRedisOutageRejectsClosed(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)

	keys, err := secret.NewRedisKeyring(rdb, "")
	if err != nil {
		t.Fatalf("NewRedisKeyring failed: %v", err)
	}
	if err := keys.Rotate(ctx, "v1", []byte("first-secret")); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	engine := buildTestEngine(t, testConfig(), keys, nil, nil)
	token, _, err := engine.IssueSession(ctx, Claims{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	mr.Close()

	s := engine.ResolveIdentity(ctx, cookiesOf("session", token))
	if s.Status != StatusRejected || s.Reason != ReasonKeyUnavailable || s.Identity != nil {
		t.Fatalf("expected Rejected(KeyUnavailable), got %+v", s)
	}
	if _, _, err := engine.IssueSession(ctx, Claims{Email: "a@b.com"}); err == nil {
		t.Fatal("expected IssueSession to fail without Redis")
	}
}

func TestInProcessKeyring(t *testing.T) {
	ctx := context.Background()
	ring := secret.NewKeyring()
	if err := ring.Rotate("a", []byte("alpha")); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	engine := buildTestEngine(t, testConfig(), ring, nil, nil)
	token, _, err := engine.IssueSession(ctx, Claims{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	if err := ring.Rotate("b", []byte("bravo")); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if s := engine.ResolveIdentity(ctx, cookiesOf("session", token)); !s.Authenticated() {
		t.Fatalf("expected token signed by a to verify after rotation, got %+v", s)
	}
}
