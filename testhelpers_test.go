package goSession

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/secret"
	"golang.org/x/crypto/bcrypt"
)

// testConfig keeps hashing cheap; scenario tests that need the production cost
// set it explicitly.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Password.BcryptCost = bcrypt.MinCost
	cfg.Password.Argon2.Memory = 8 * 1024
	cfg.Password.Argon2.Time = 1
	cfg.Password.Argon2.Parallelism = 1
	cfg.Pool.Workers = 4
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func buildTestEngine(t testing.TB, cfg Config, keys secret.Provider, sink AuditSink, now func() time.Time) *Engine {
	t.Helper()

	b := New().WithConfig(cfg).WithKeyProvider(keys).WithAuditSink(sink)
	if now != nil {
		b = b.WithClock(now)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func mustHash(t testing.TB, e *Engine, plaintext string) string {
	t.Helper()
	hash, err := e.HashCredential(context.Background(), plaintext, 0)
	if err != nil {
		t.Fatalf("HashCredential failed: %v", err)
	}
	return hash
}

func cookiesOf(name, value string) map[string]string {
	return map[string]string{name: value}
}
