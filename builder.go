package goSession

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/workerpool"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/secret"
	"github.com/google/uuid"
)

// Builder assembles an [Engine]. A Builder is single use.
type Builder struct {
	config    Config
	keys      secret.Provider
	logger    *slog.Logger
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithKeyProvider sets the source of signing and verification keys used by
// Login, Register and ResolveIdentity. Keys are fetched on every call.
func (b *Builder) WithKeyProvider(p secret.Provider) *Builder {
	b.keys = p
	return b
}

// WithSigningSecret is shorthand for WithKeyProvider(secret.Static(s)).
func (b *Builder) WithSigningSecret(s []byte) *Builder {
	b.keys = secret.Static(s)
	return b
}

// WithLogger sets the logger for diagnostics. Plaintext credentials, hashes and
// secrets are never logged.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithClock overrides time.Now for token timestamps and cookie expiry.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the configuration and constructs the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// -------- HASHERS --------
	registry, err := newHasherRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// -------- TOKEN CODEC --------
	codecCfg := cfg.codecConfig()
	codecCfg.Clock = clock
	codec, err := jwt.NewCodec(codecCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// -------- COOKIE TRANSPORT --------
	sameSite, err := cookie.ParseSameSite(cfg.Cookie.SameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cookieCfg := cfg.cookieConfig(sameSite)
	cookieCfg.Clock = clock
	transport, err := cookie.New(cookieCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Unknown subjects are verified against this hash so they cost the same
	// as a wrong password.
	decoyPlain := strings.Repeat(uuid.NewString(), 2)[:cfg.Password.MaxBytes]
	decoy, err := registry.Hash(decoyPlain)
	if err != nil {
		return nil, fmt.Errorf("%w: decoy hash: %v", ErrHashingFailure, err)
	}

	engine := &Engine{
		config:    cfg,
		hashers:   registry,
		codec:     codec,
		transport: transport,
		keys:      b.keys,
		pool:      workerpool.New(cfg.Pool.Workers),
		logger:    logger,
		clock:     clock,
		decoyHash: decoy,
	}
	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	logger.Debug("goSession engine built",
		"algorithm", registry.Preferred().Algorithm(),
		"signing_method", codec.Algorithm(),
		"cookie", transport.Name(),
		"workers", engine.pool.Size(),
	)

	return engine, nil
}

func newHasherRegistry(cfg Config) (*password.Registry, error) {
	policy := cfg.passwordPolicy()

	bc, err := password.NewBcrypt(password.BcryptConfig{
		Cost:    cfg.Password.BcryptCost,
		MaxCost: cfg.Password.BcryptMaxCost,
		Policy:  policy,
	})
	if err != nil {
		return nil, err
	}

	ar, err := password.NewArgon2(password.Argon2Config{
		Memory:      cfg.Password.Argon2.Memory,
		Time:        cfg.Password.Argon2.Time,
		Parallelism: cfg.Password.Argon2.Parallelism,
		SaltLength:  cfg.Password.Argon2.SaltLength,
		KeyLength:   cfg.Password.Argon2.KeyLength,
		MaxTime:     cfg.Password.Argon2.MaxTime,
		Policy:      policy,
	})
	if err != nil {
		return nil, err
	}

	if strings.ToLower(cfg.Password.Algorithm) == AlgorithmArgon2id {
		return password.NewRegistry(ar, bc)
	}
	return password.NewRegistry(bc, ar)
}
