package goSession

import (
	"strings"

	internalsecurity "github.com/MrEthical07/goSession/internal/security"
	"github.com/MrEthical07/goSession/secret"
)

// SecurityReport is the configuration posture of an Engine.
type SecurityReport = internalsecurity.Report

// SecurityReport summarizes the Engine's effective configuration and lists
// settings weaker than recommended. It contains no key material.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	cfg := e.config
	return internalsecurity.BuildReport(internalsecurity.ReportInput{
		PasswordAlgorithm: strings.ToLower(cfg.Password.Algorithm),
		BcryptCost:        cfg.Password.BcryptCost,
		Argon2: internalsecurity.Argon2Report{
			Memory:      cfg.Password.Argon2.Memory,
			Time:        cfg.Password.Argon2.Time,
			Parallelism: cfg.Password.Argon2.Parallelism,
			SaltLength:  cfg.Password.Argon2.SaltLength,
			KeyLength:   cfg.Password.Argon2.KeyLength,
		},
		MinPasswordBytes: cfg.Password.MinBytes,
		SigningAlgorithm: e.codec.Algorithm(),
		SessionTTL:       cfg.Session.TTL,
		CookieSecure:     cfg.Cookie.Secure,
		CookieSameSite:   strings.ToLower(cfg.Cookie.SameSite),
		KeyProvider:      secret.Kind(e.keys),
		AuditEnabled:     cfg.Audit.Enabled,
		UpgradeOnLogin:   cfg.Session.UpgradeOnLogin,
	})
}
