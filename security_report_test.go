package goSession

import (
	"strings"
	"testing"

	"github.com/MrEthical07/goSession/secret"
)

func TestSecurityReportDefaults(t *testing.T) {
	engine, err := New().WithSigningSecret([]byte("report-secret")).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	r := engine.SecurityReport()
	if r.PasswordAlgorithm != AlgorithmBcrypt || r.BcryptCost != 10 {
		t.Fatalf("unexpected password posture %+v", r)
	}
	if r.SigningAlgorithm != "HS256" || r.KeyProvider != "static" || !r.CookieSecure {
		t.Fatalf("unexpected token posture %+v", r)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("defaults should not warn, got %v", r.Warnings)
	}
}

func TestSecurityReportFlagsWeakConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Cookie.Secure = false
	engine := buildTestEngine(t, cfg, nil, nil, nil)

	r := engine.SecurityReport()
	joined := strings.Join(r.Warnings, "\n")
	for _, want := range []string{"bcrypt cost", "plain HTTP", "no key provider"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected a warning mentioning %q, got %v", want, r.Warnings)
		}
	}
}

func TestSecurityReportKeyring(t *testing.T) {
	engine := buildTestEngine(t, testConfig(), secret.NewKeyring(), nil, nil)
	if got := engine.SecurityReport().KeyProvider; got != "keyring" {
		t.Fatalf("KeyProvider = %q, want keyring", got)
	}
}
