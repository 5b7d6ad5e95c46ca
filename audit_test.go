package goSession

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/secret"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func waitForEvent(t *testing.T, sink *ChannelSink, eventType string) AuditEvent {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	engine := buildTestEngine(t, cfg, secret.Static([]byte("k1")), sink, nil)

	_, _ = engine.Login(context.Background(), nil, "wrong-password")
	engine.Close()

	if sink.count.Load() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.count.Load())
	}
}

func TestAuditLoginEvents(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(64)
	engine := buildTestEngine(t, cfg, secret.Static([]byte("k1")), sink, nil)
	ctx := WithClientIP(context.Background(), "203.0.113.1")

	record := &CredentialRecord{Subject: "u1", PasswordHash: mustHash(t, engine, "correct-horse")}
	waitForEvent(t, sink, "credential_hashed")

	if _, err := engine.Login(ctx, record, "wrong-horse"); err == nil {
		t.Fatal("expected login failure")
	}
	failure := waitForEvent(t, sink, "login_failure")
	if failure.Success || failure.Reason != "invalid_credentials" || failure.IP != "203.0.113.1" {
		t.Fatalf("unexpected failure event %+v", failure)
	}

	login, err := engine.Login(ctx, record, "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	success := waitForEvent(t, sink, "login_success")
	if !success.Success || success.Subject != "u1" {
		t.Fatalf("unexpected success event %+v", success)
	}
	if success.TokenID == "" || success.TokenID != login.Claims.ID {
		t.Fatalf("expected login event to carry jti %q, got %q", login.Claims.ID, success.TokenID)
	}

	engine.Logout(ctx, cookiesOf("session", login.Token))
	logout := waitForEvent(t, sink, "logout")
	if logout.Subject != "u1" {
		t.Fatalf("expected logout to record the subject, got %+v", logout)
	}

	engine.ResolveIdentity(ctx, cookiesOf("session", "x.y.z"))
	rejected := waitForEvent(t, sink, "session_rejected")
	if rejected.Metadata["reason"] != "malformed" {
		t.Fatalf("unexpected rejection event %+v", rejected)
	}
}

func TestAuditEventsNeverCarrySecrets(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(64)
	engine := buildTestEngine(t, cfg, secret.Static([]byte("k1")), sink, nil)

	res, err := engine.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "very-secret-pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	engine.Close()

	drain := func() []AuditEvent {
		var out []AuditEvent
		for {
			select {
			case ev := <-sink.Events():
				out = append(out, ev)
			default:
				return out
			}
		}
	}
	events := drain()
	if len(events) == 0 {
		t.Fatal("expected audit events")
	}
	for _, ev := range events {
		for _, v := range append([]string{ev.Subject, ev.Reason}, mapValues(ev.Metadata)...) {
			if v == "very-secret-pw" || v == res.PasswordHash || v == res.Token {
				t.Fatalf("audit event leaked sensitive material: %+v", ev)
			}
		}
	}
}

func TestAuditRegisterCarriesTokenID(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Session.AutoLogin = true

	sink := NewChannelSink(64)
	engine := buildTestEngine(t, cfg, secret.Static([]byte("k1")), sink, nil)

	res, err := engine.Register(context.Background(), RegisterRequest{Subject: "u9", Password: "long-enough-pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	ev := waitForEvent(t, sink, "register_success")
	if ev.TokenID == "" || ev.TokenID != res.Claims.ID {
		t.Fatalf("expected register event to carry jti %q, got %+v", res.Claims.ID, ev)
	}
}

func TestLogoutWithExpiredSessionIsNotARejection(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false

	clk := &clock{now: time.Unix(1_800_000_000, 0)}
	sink := NewChannelSink(64)
	engine := buildTestEngine(t, cfg, secret.Static([]byte("k1")), sink, clk.Now)
	ctx := context.Background()

	record := &CredentialRecord{Subject: "u1", PasswordHash: mustHash(t, engine, "correct-horse")}
	login, err := engine.Login(ctx, record, "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	clk.Advance(cfg.Session.TTL + time.Minute)

	clearing := engine.Logout(ctx, cookiesOf(login.Cookie.Name, login.Cookie.Value))
	if clearing == nil || clearing.MaxAge != -1 {
		t.Fatalf("expected clearing directive, got %+v", clearing)
	}
	logout := waitForEvent(t, sink, "logout")
	if logout.Subject != "" {
		t.Fatalf("expected no subject for an expired session, got %q", logout.Subject)
	}
	engine.Close()

	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType == "session_rejected" {
				t.Fatalf("logout emitted a rejection event %+v", ev)
			}
			continue
		default:
		}
		break
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricTokenRejectedExpired] != 0 {
		t.Fatalf("expected no expired rejections, got %d", snap.Counters[MetricTokenRejectedExpired])
	}
	if snap.Counters[MetricLogout] != 1 {
		t.Fatalf("expected one logout, got %d", snap.Counters[MetricLogout])
	}
}

func mapValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
