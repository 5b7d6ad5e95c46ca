package goSession

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/password"
	"golang.org/x/crypto/bcrypt"
)

// Config is the full Engine configuration. Field tags name the keys used when
// loading from YAML.
type Config struct {
	Password PasswordConfig `koanf:"password"`
	Token    TokenConfig    `koanf:"token"`
	Cookie   CookieConfig   `koanf:"cookie"`
	Session  SessionConfig  `koanf:"session"`
	Pool     PoolConfig     `koanf:"pool"`
	Audit    AuditConfig    `koanf:"audit"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// Supported values for PasswordConfig.Algorithm.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// PasswordConfig selects the preferred hashing algorithm and its bounds. Hashes
// of the other algorithm remain verifiable.
type PasswordConfig struct {
	Algorithm     string       `koanf:"algorithm"`
	BcryptCost    int          `koanf:"bcrypt_cost"`
	BcryptMaxCost int          `koanf:"bcrypt_max_cost"`
	Argon2        Argon2Config `koanf:"argon2"`
	MinBytes      int          `koanf:"min_bytes"`
	MaxBytes      int          `koanf:"max_bytes"`
}

// Argon2Config holds argon2id parameters. Memory is in KiB.
type Argon2Config struct {
	Memory      uint32 `koanf:"memory"`
	Time        uint32 `koanf:"time"`
	Parallelism uint8  `koanf:"parallelism"`
	SaltLength  uint32 `koanf:"salt_length"`
	KeyLength   uint32 `koanf:"key_length"`
	MaxTime     uint32 `koanf:"max_time"`
}

/*
====================================
TOKEN / COOKIE / SESSION CONFIG
====================================
*/

// TokenConfig controls token signing and claim validation.
type TokenConfig struct {
	SigningMethod string        `koanf:"signing_method"` // "hs256" (default), "hs384", "hs512"
	Issuer        string        `koanf:"issuer"`
	Audience      string        `koanf:"audience"`
	Leeway        time.Duration `koanf:"leeway"`
	MaxFutureIAT  time.Duration `koanf:"max_future_iat"`
}

// CookieConfig shapes the session cookie.
type CookieConfig struct {
	Name     string `koanf:"name"`
	Path     string `koanf:"path"`
	Domain   string `koanf:"domain"`
	Secure   bool   `koanf:"secure"`
	SameSite string `koanf:"same_site"` // "lax" (default), "strict", "none"
}

// SessionConfig controls the sessions issued by Login and Register.
type SessionConfig struct {
	TTL            time.Duration `koanf:"ttl"`
	AutoLogin      bool          `koanf:"auto_login"`
	UpgradeOnLogin bool          `koanf:"upgrade_on_login"`
}

// PoolConfig sizes the hashing worker pool. Zero workers selects GOMAXPROCS.
type PoolConfig struct {
	Workers int `koanf:"workers"`
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool `koanf:"enabled"`
	BufferSize int  `koanf:"buffer_size"`
	DropIfFull bool `koanf:"drop_if_full"`
}

// MetricsConfig toggles in-process metric collection.
type MetricsConfig struct {
	Enabled                 bool `koanf:"enabled"`
	EnableLatencyHistograms bool `koanf:"enable_latency_histograms"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the production defaults: bcrypt at cost 10, HS256
// tokens valid for one hour, a secure SameSite=Lax "session" cookie and
// auto-login after registration.
func DefaultConfig() Config {
	argon := password.DefaultArgon2Config()
	return Config{
		Password: PasswordConfig{
			Algorithm:     AlgorithmBcrypt,
			BcryptCost:    password.DefaultBcryptCost,
			BcryptMaxCost: password.DefaultBcryptMaxCost,
			Argon2: Argon2Config{
				Memory:      argon.Memory,
				Time:        argon.Time,
				Parallelism: argon.Parallelism,
				SaltLength:  argon.SaltLength,
				KeyLength:   argon.KeyLength,
				MaxTime:     password.DefaultArgon2MaxTime,
			},
			MinBytes: password.DefaultMinPasswordBytes,
			MaxBytes: password.DefaultMaxPasswordBytes,
		},
		Token: TokenConfig{
			SigningMethod: string(jwt.MethodHS256),
			MaxFutureIAT:  10 * time.Minute,
		},
		Cookie: CookieConfig{
			Name:     cookie.DefaultName,
			Path:     cookie.DefaultPath,
			Secure:   true,
			SameSite: "lax",
		},
		Session: SessionConfig{
			TTL:            time.Hour,
			AutoLogin:      true,
			UpgradeOnLogin: true,
		},
		Pool: PoolConfig{
			Workers: 0,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first unusable setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	// Password
	switch strings.ToLower(c.Password.Algorithm) {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return fmt.Errorf("%w: unsupported password algorithm %q", ErrInvalidConfig, c.Password.Algorithm)
	}
	if c.Password.BcryptMaxCost < bcrypt.MinCost || c.Password.BcryptMaxCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt max cost must be within [%d, %d]", ErrInvalidConfig, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > c.Password.BcryptMaxCost {
		return fmt.Errorf("%w: bcrypt cost must be within [%d, %d]", ErrInvalidConfig, bcrypt.MinCost, c.Password.BcryptMaxCost)
	}
	if c.Password.MinBytes < 1 {
		return fmt.Errorf("%w: password min bytes must be >= 1", ErrInvalidConfig)
	}
	if c.Password.MaxBytes < c.Password.MinBytes || c.Password.MaxBytes > password.DefaultMaxPasswordBytes {
		return fmt.Errorf("%w: password max bytes must be within [min_bytes, %d]", ErrInvalidConfig, password.DefaultMaxPasswordBytes)
	}

	// Token
	switch jwt.SigningMethod(strings.ToLower(c.Token.SigningMethod)) {
	case jwt.MethodHS256, jwt.MethodHS384, jwt.MethodHS512:
	default:
		return fmt.Errorf("%w: unsupported signing method %q", ErrInvalidConfig, c.Token.SigningMethod)
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return fmt.Errorf("%w: token leeway must be within [0, 2m]", ErrInvalidConfig)
	}
	if c.Token.MaxFutureIAT < 0 || c.Token.MaxFutureIAT > 24*time.Hour {
		return fmt.Errorf("%w: token max future iat must be within [0, 24h]", ErrInvalidConfig)
	}

	// Cookie
	sameSite, err := cookie.ParseSameSite(c.Cookie.SameSite)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := cookie.New(c.cookieConfig(sameSite)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Session
	if c.Session.TTL < time.Second {
		return fmt.Errorf("%w: session ttl must be at least 1s", ErrInvalidConfig)
	}

	if c.Pool.Workers < 0 {
		return fmt.Errorf("%w: pool workers must be >= 0", ErrInvalidConfig)
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: audit buffer size must be > 0", ErrInvalidConfig)
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return fmt.Errorf("%w: latency histograms require metrics to be enabled", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) cookieConfig(sameSite http.SameSite) cookie.Config {
	return cookie.Config{
		Name:     c.Cookie.Name,
		Path:     c.Cookie.Path,
		Domain:   c.Cookie.Domain,
		Insecure: !c.Cookie.Secure,
		SameSite: sameSite,
	}
}

func (c *Config) passwordPolicy() password.Policy {
	return password.Policy{MinBytes: c.Password.MinBytes, MaxBytes: c.Password.MaxBytes}
}

func (c *Config) codecConfig() jwt.Config {
	return jwt.Config{
		SigningMethod: jwt.SigningMethod(strings.ToLower(c.Token.SigningMethod)),
		Issuer:        c.Token.Issuer,
		Audience:      c.Token.Audience,
		Leeway:        c.Token.Leeway,
		MaxFutureIAT:  c.Token.MaxFutureIAT,
	}
}
