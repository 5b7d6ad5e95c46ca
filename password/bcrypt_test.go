package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestBcrypt(t *testing.T) *Bcrypt {
	t.Helper()
	h, err := NewBcrypt(BcryptConfig{Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	return h
}

func TestBcryptHashAndVerify(t *testing.T) {
	h := newTestBcrypt(t)

	hash, err := h.Hash("merapassword")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Fatalf("unexpected bcrypt prefix: %s", hash)
	}
	if strings.Contains(hash, "merapassword") {
		t.Fatal("hash must not embed the plaintext")
	}

	ok, err := h.Verify("merapassword", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("wrongpass", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestBcryptSaltsDiffer(t *testing.T) {
	h := newTestBcrypt(t)

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct encodings for identical plaintexts")
	}
	for _, hash := range []string{first, second} {
		if ok, _ := h.Verify("same-password", hash); !ok {
			t.Fatalf("expected %s to verify", hash)
		}
	}
}

func TestBcryptCostBounds(t *testing.T) {
	h, err := NewBcrypt(BcryptConfig{Cost: bcrypt.MinCost, MaxCost: 6})
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	if _, err := h.HashWithCost("bounded-cost", 7); !errors.Is(err, ErrCostOutOfRange) {
		t.Fatalf("expected ErrCostOutOfRange, got %v", err)
	}
	if _, err := h.HashWithCost("bounded-cost", 3); !errors.Is(err, ErrCostOutOfRange) {
		t.Fatalf("expected ErrCostOutOfRange, got %v", err)
	}

	heavy, err := bcrypt.GenerateFromPassword([]byte("bounded-cost"), 7)
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}
	ok, err := h.Verify("bounded-cost", string(heavy))
	if ok || !errors.Is(err, ErrCostOutOfRange) {
		t.Fatalf("expected stored cost above max to be refused, ok=%v err=%v", ok, err)
	}
}

func TestBcryptVerifyMalformed(t *testing.T) {
	h := newTestBcrypt(t)

	ok, err := h.Verify("whatever-pass", "$2a$xx$garbage")
	if ok || !errors.Is(err, ErrMalformedHash) {
		t.Fatalf("expected malformed hash error, ok=%v err=%v", ok, err)
	}
}

func TestBcryptNeedsUpgrade(t *testing.T) {
	weak := newTestBcrypt(t)
	hash, err := weak.Hash("upgrade-me-pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	strong, err := NewBcrypt(BcryptConfig{Cost: 6})
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	needs, err := strong.NeedsUpgrade(hash)
	if err != nil || !needs {
		t.Fatalf("expected upgrade, needs=%v err=%v", needs, err)
	}
	needs, err = weak.NeedsUpgrade(hash)
	if err != nil || needs {
		t.Fatalf("expected no upgrade, needs=%v err=%v", needs, err)
	}
}

func TestNewBcryptRejectsLongPolicy(t *testing.T) {
	if _, err := NewBcrypt(BcryptConfig{Policy: Policy{MaxBytes: 128}}); err == nil {
		t.Fatal("expected max bytes above 72 to be rejected")
	}
}

func TestPolicyMinimumCannotBeDisabled(t *testing.T) {
	for _, minBytes := range []int{0, -1} {
		p := Policy{MinBytes: minBytes}
		if err := p.Check(""); !errors.Is(err, ErrPolicy) {
			t.Fatalf("MinBytes %d: expected empty password to violate policy, got %v", minBytes, err)
		}
		if err := p.Check(strings.Repeat("a", DefaultMinPasswordBytes-1)); !errors.Is(err, ErrPolicy) {
			t.Fatalf("MinBytes %d: expected short password to violate policy, got %v", minBytes, err)
		}
		if err := p.Check(strings.Repeat("a", DefaultMinPasswordBytes)); err != nil {
			t.Fatalf("MinBytes %d: expected default minimum to pass, got %v", minBytes, err)
		}
	}

	h, err := NewBcrypt(BcryptConfig{Cost: bcrypt.MinCost, Policy: Policy{MinBytes: 1}})
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	hash, err := h.Hash("x")
	if err != nil {
		t.Fatalf("expected one-byte password with MinBytes 1, got %v", err)
	}
	if ok, err := h.Verify("x", hash); err != nil || !ok {
		t.Fatalf("expected one-byte round trip, got ok=%v err=%v", ok, err)
	}
}
