package security

import "time"

// Minimums below which BuildReport warns.
const (
	MinRecommendedBcryptCost   = 10
	MinRecommendedArgon2Memory = 19 * 1024
	MinRecommendedPasswordLen  = 8
	MaxRecommendedSessionTTL   = 24 * time.Hour
)

// Argon2Report mirrors the argon2id parameters in effect.
type Argon2Report struct {
	Memory      uint32 `json:"memory_kib"`
	Time        uint32 `json:"time"`
	Parallelism uint8  `json:"parallelism"`
	SaltLength  uint32 `json:"salt_length"`
	KeyLength   uint32 `json:"key_length"`
}

// Report is the derived posture of one engine.
type Report struct {
	PasswordAlgorithm string        `json:"password_algorithm"`
	BcryptCost        int           `json:"bcrypt_cost"`
	Argon2            Argon2Report  `json:"argon2"`
	MinPasswordBytes  int           `json:"min_password_bytes"`
	SigningAlgorithm  string        `json:"signing_algorithm"`
	SessionTTL        time.Duration `json:"session_ttl"`
	CookieSecure      bool          `json:"cookie_secure"`
	CookieSameSite    string        `json:"cookie_same_site"`
	KeyProvider       string        `json:"key_provider"`
	AuditEnabled      bool          `json:"audit_enabled"`
	UpgradeOnLogin    bool          `json:"upgrade_on_login"`
	Warnings          []string      `json:"warnings,omitempty"`
}

// ReportInput is the flattened configuration BuildReport reads.
type ReportInput struct {
	PasswordAlgorithm string
	BcryptCost        int
	Argon2            Argon2Report
	MinPasswordBytes  int
	SigningAlgorithm  string
	SessionTTL        time.Duration
	CookieSecure      bool
	CookieSameSite    string
	KeyProvider       string
	AuditEnabled      bool
	UpgradeOnLogin    bool
}

// BuildReport copies input into a Report and appends a warning for every
// setting weaker than the recommended minimum.
func BuildReport(input ReportInput) Report {
	r := Report{
		PasswordAlgorithm: input.PasswordAlgorithm,
		BcryptCost:        input.BcryptCost,
		Argon2:            input.Argon2,
		MinPasswordBytes:  input.MinPasswordBytes,
		SigningAlgorithm:  input.SigningAlgorithm,
		SessionTTL:        input.SessionTTL,
		CookieSecure:      input.CookieSecure,
		CookieSameSite:    input.CookieSameSite,
		KeyProvider:       input.KeyProvider,
		AuditEnabled:      input.AuditEnabled,
		UpgradeOnLogin:    input.UpgradeOnLogin,
	}

	switch input.PasswordAlgorithm {
	case "bcrypt":
		if input.BcryptCost < MinRecommendedBcryptCost {
			r.Warnings = append(r.Warnings, "bcrypt cost below recommended minimum")
		}
	case "argon2id":
		if input.Argon2.Memory < MinRecommendedArgon2Memory {
			r.Warnings = append(r.Warnings, "argon2id memory below recommended minimum")
		}
	}
	if input.MinPasswordBytes < MinRecommendedPasswordLen {
		r.Warnings = append(r.Warnings, "minimum password length below recommended minimum")
	}
	if input.SessionTTL > MaxRecommendedSessionTTL {
		r.Warnings = append(r.Warnings, "session ttl longer than a day")
	}
	if !input.CookieSecure {
		r.Warnings = append(r.Warnings, "session cookie sent over plain HTTP")
	}
	if input.KeyProvider == "none" {
		r.Warnings = append(r.Warnings, "no key provider configured")
	}

	return r
}
