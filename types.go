package goSession

import (
	"io"
	"maps"
	"net/http"

	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	internalmetrics "github.com/MrEthical07/goSession/internal/metrics"
	"github.com/MrEthical07/goSession/jwt"
)

// Claims is the typed token payload.
type Claims = jwt.Claims

// AuthStatus is the outcome of resolving a request's session.
type AuthStatus uint8

const (
	// StatusUnauthenticated means no session cookie was presented.
	StatusUnauthenticated AuthStatus = iota
	// StatusPending is held only while a presented token is being checked.
	StatusPending
	// StatusAuthenticated means the token signature and expiry validated.
	StatusAuthenticated
	// StatusRejected means a token was presented and failed verification.
	StatusRejected
)

func (s AuthStatus) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusPending:
		return "pending"
	case StatusAuthenticated:
		return "authenticated"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RejectReason says why a presented token was rejected. It is for logs and
// metrics; callers present every rejection to users as [ErrUnauthorized].
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonMalformed
	ReasonSignatureMismatch
	ReasonExpired
	ReasonClaimsInvalid
	ReasonKeyUnavailable
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonMalformed:
		return "malformed"
	case ReasonSignatureMismatch:
		return "signature_mismatch"
	case ReasonExpired:
		return "expired"
	case ReasonClaimsInvalid:
		return "claims_invalid"
	case ReasonKeyUnavailable:
		return "key_unavailable"
	default:
		return "unknown"
	}
}

// Identity is derived from a verified token and recomputed on every request.
type Identity struct {
	Subject string
	Email   string
	Claims  *Claims
}

// AuthState is the result of [Engine.ResolveIdentity]. Identity is set only
// when Status is StatusAuthenticated.
type AuthState struct {
	Status   AuthStatus
	Identity *Identity
	Reason   RejectReason
}

// Authenticated reports whether the state carries a verified identity.
func (s AuthState) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// Err returns nil for an authenticated state and ErrUnauthorized otherwise. It
// never reveals the rejection reason.
func (s AuthState) Err() error {
	if s.Authenticated() {
		return nil
	}
	return ErrUnauthorized
}

// CredentialRecord is what the caller fetched from its own store for a login
// attempt. Attrs are copied into the issued token.
type CredentialRecord struct {
	Subject      string
	Email        string
	PasswordHash string
	Attrs        map[string]string
}

func (r *CredentialRecord) claims() Claims {
	c := Claims{
		Email: r.Email,
		Attrs: maps.Clone(r.Attrs),
	}
	c.Subject = r.Subject
	return c
}

// LoginResult is returned by a successful [Engine.Login].
//
// NewPasswordHash is non-empty when the stored hash was produced with weaker
// parameters than the current configuration; the caller should persist it.
type LoginResult struct {
	Token           string
	Claims          *Claims
	Cookie          *http.Cookie
	NewPasswordHash string
}

// RegisterRequest carries a new account's identifiers and chosen password.
type RegisterRequest struct {
	Subject  string
	Email    string
	Password string
	Attrs    map[string]string
}

// RegisterResult carries the hash to persist and, with auto-login enabled, the
// session for the new account.
type RegisterResult struct {
	PasswordHash string
	Token        string
	Claims       *Claims
	Cookie       *http.Cookie
}

// AuditEvent is the audit record delivered to an [AuditSink].
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the Engine's dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink drops audit events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink writes audit events into a buffered channel.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink logs audit events through a *slog.Logger.
type SlogSink = internalaudit.SlogSink

// NewChannelSink returns a sink backed by a channel of the given capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing JSON lines to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a counter or histogram.
type MetricID = internalmetrics.MetricID

const (
	MetricCredentialHashed            = internalmetrics.MetricCredentialHashed
	MetricCredentialHashFailure       = internalmetrics.MetricCredentialHashFailure
	MetricCredentialMatch             = internalmetrics.MetricCredentialMatch
	MetricCredentialMismatch          = internalmetrics.MetricCredentialMismatch
	MetricLoginSuccess                = internalmetrics.MetricLoginSuccess
	MetricLoginFailure                = internalmetrics.MetricLoginFailure
	MetricRegisterSuccess             = internalmetrics.MetricRegisterSuccess
	MetricTokenIssued                 = internalmetrics.MetricTokenIssued
	MetricTokenRejectedMalformed      = internalmetrics.MetricTokenRejectedMalformed
	MetricTokenRejectedSignature      = internalmetrics.MetricTokenRejectedSignature
	MetricTokenRejectedExpired        = internalmetrics.MetricTokenRejectedExpired
	MetricTokenRejectedClaims         = internalmetrics.MetricTokenRejectedClaims
	MetricTokenRejectedKeyUnavailable = internalmetrics.MetricTokenRejectedKeyUnavailable
	MetricSessionAuthenticated        = internalmetrics.MetricSessionAuthenticated
	MetricSessionAnonymous            = internalmetrics.MetricSessionAnonymous
	MetricLogout                      = internalmetrics.MetricLogout
	MetricHashLatency                 = internalmetrics.MetricHashLatency
	MetricResolveLatency              = internalmetrics.MetricResolveLatency

	// MetricIDCount is one past the last MetricID.
	MetricIDCount = internalmetrics.MetricIDCount
	// HistBucketCount is the number of latency buckets per histogram.
	HistBucketCount = internalmetrics.HistBucketCount
)

// Metrics is the Engine's lock-free metric store.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all metric values.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics returns a metric store configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Enabled,
		EnableLatencyHistograms: cfg.EnableLatencyHistograms,
	})
}
