package goSession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/workerpool"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/secret"
)

// Engine hashes credentials, issues and verifies session tokens and resolves
// request identities. Construct it with [New] and [Builder.Build].
//
// Engine is immutable after Build and safe for concurrent use. Secrets are
// never retained: every call that needs a key asks the key provider.
type Engine struct {
	config    Config
	hashers   *password.Registry
	codec     *jwt.Codec
	transport *cookie.Transport
	keys      secret.Provider
	pool      *workerpool.Pool
	audit     *audit.Dispatcher
	metrics   *Metrics
	logger    *slog.Logger
	clock     func() time.Time
	decoyHash string
	closed    atomic.Bool
}

func (e *Engine) ready() error {
	if e == nil || e.closed.Load() {
		return ErrEngineNotReady
	}
	return nil
}

/*
====================================
CREDENTIALS
====================================
*/

// HashCredential hashes plaintext with the preferred algorithm. A cost of zero
// selects the configured default; otherwise cost is the algorithm's work factor
// (bcrypt log2 rounds, argon2 iterations). The work runs on the hashing pool
// and the call waits until it finishes or ctx ends.
func (e *Engine) HashCredential(ctx context.Context, plaintext string, cost int) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	start := time.Now()
	hash, err := workerpool.Run(ctx, e.pool, func() (string, error) {
		return e.hashers.HashWithCost(plaintext, cost)
	})
	e.metrics.Observe(MetricHashLatency, time.Since(start))
	if err != nil {
		e.metrics.Inc(MetricCredentialHashFailure)
		return "", e.mapHashError(err)
	}

	e.metrics.Inc(MetricCredentialHashed)
	e.emitAudit(ctx, auditEventCredentialHashed, true, "", "", nil, func() map[string]string {
		return map[string]string{"algorithm": e.hashers.Preferred().Algorithm()}
	})
	return hash, nil
}

// VerifyCredential reports whether plaintext matches hash. Unknown, malformed
// and over-cost hashes never match. An error is returned only when ctx ends or
// the Engine is closed.
func (e *Engine) VerifyCredential(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}

	start := time.Now()
	ok, err := workerpool.Run(ctx, e.pool, func() (bool, error) {
		return e.hashers.Verify(plaintext, hash)
	})
	e.metrics.Observe(MetricHashLatency, time.Since(start))
	if err != nil {
		if isContextOrPoolError(err) {
			return false, e.mapPoolError(err)
		}
		e.logger.Debug("credential hash not verifiable", "error", err)
		ok = false
	}

	if ok {
		e.metrics.Inc(MetricCredentialMatch)
	} else {
		e.metrics.Inc(MetricCredentialMismatch)
	}
	return ok, nil
}

func (e *Engine) mapHashError(err error) error {
	switch {
	case isContextOrPoolError(err):
		return e.mapPoolError(err)
	case errors.Is(err, password.ErrPolicy):
		return fmt.Errorf("%w: %w", ErrPasswordPolicy, err)
	case errors.Is(err, password.ErrCostOutOfRange):
		return fmt.Errorf("%w: %w", ErrInvalidCost, err)
	default:
		return fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}
}

func (e *Engine) mapPoolError(err error) error {
	if errors.Is(err, workerpool.ErrClosed) {
		return ErrEngineNotReady
	}
	return err
}

func isContextOrPoolError(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, workerpool.ErrClosed)
}

/*
====================================
TOKENS
====================================
*/

// IssueToken signs claims with secret, valid for ttl. A ttl of zero or less
// yields a token that is already expired.
func (e *Engine) IssueToken(claims Claims, secretKey []byte, ttl time.Duration) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	token, _, err := e.codec.Issue(claims, secret.Key{Secret: secretKey}, ttl)
	if err != nil {
		return "", e.mapIssueError(err)
	}
	e.metrics.Inc(MetricTokenIssued)
	return token, nil
}

// VerifyToken checks token against secret. Errors are one of
// ErrMalformedToken, ErrSignatureMismatch, ErrExpired or ErrClaimsInvalid.
func (e *Engine) VerifyToken(token string, secretKey []byte) (*Claims, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	claims, err := e.codec.Verify(token, secret.Key{Secret: secretKey})
	if err != nil {
		if errors.Is(err, jwt.ErrEmptySecret) {
			return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
		}
		return nil, err
	}
	return claims, nil
}

// IssueSession signs claims with the provider's current signing key for the
// configured session TTL.
func (e *Engine) IssueSession(ctx context.Context, claims Claims) (string, *Claims, error) {
	if err := e.ready(); err != nil {
		return "", nil, err
	}
	key, err := e.signingKey(ctx)
	if err != nil {
		return "", nil, err
	}
	token, signed, err := e.codec.Issue(claims, key, e.config.Session.TTL)
	if err != nil {
		return "", nil, e.mapIssueError(err)
	}
	e.metrics.Inc(MetricTokenIssued)
	return token, signed, nil
}

func (e *Engine) signingKey(ctx context.Context) (secret.Key, error) {
	if e.keys == nil {
		return secret.Key{}, fmt.Errorf("%w: no key provider configured", ErrKeyUnavailable)
	}
	key, err := e.keys.SigningKey(ctx)
	if err != nil {
		return secret.Key{}, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	return key, nil
}

func (e *Engine) mapIssueError(err error) error {
	if errors.Is(err, jwt.ErrEmptySecret) {
		return fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	return err
}

/*
====================================
COOKIES
====================================
*/

// BuildSessionCookie packages token as the session cookie. The cookie expires
// with the token's exp claim, or after the session TTL when the token has none.
func (e *Engine) BuildSessionCookie(token string) *http.Cookie {
	ttl := e.config.Session.TTL
	if exp, ok := e.codec.ExpiresAt(token); ok {
		ttl = exp.Sub(e.clock())
	}
	return e.transport.Directive(token, ttl)
}

// ClearSessionCookie returns a directive that removes the session cookie.
func (e *Engine) ClearSessionCookie() *http.Cookie {
	return e.transport.Clearing()
}

// CookieName returns the configured session cookie name.
func (e *Engine) CookieName() string {
	return e.transport.Name()
}

/*
====================================
IDENTITY RESOLUTION
====================================
*/

// ResolveIdentity inspects the incoming cookies (name to value) and returns the
// caller's AuthState. Verification keys come from the key provider, selected
// by the token's kid header.
func (e *Engine) ResolveIdentity(ctx context.Context, cookies map[string]string) AuthState {
	if e.ready() != nil {
		return AuthState{Status: StatusRejected, Reason: ReasonKeyUnavailable}
	}
	return e.resolve(ctx, cookies, func(token string) (secret.Key, RejectReason) {
		if e.keys == nil {
			return secret.Key{}, ReasonKeyUnavailable
		}
		kid, err := e.codec.KeyID(token)
		if err != nil {
			return secret.Key{}, ReasonMalformed
		}
		key, err := e.keys.VerificationKey(ctx, kid)
		switch {
		case err == nil:
			return key, ReasonNone
		case errors.Is(err, secret.ErrKeyNotFound):
			// Not signed by any key we hold.
			return secret.Key{}, ReasonSignatureMismatch
		default:
			e.logger.Warn("verification key unavailable", "error", err)
			return secret.Key{}, ReasonKeyUnavailable
		}
	})
}

// ResolveIdentityWithSecret is ResolveIdentity with an explicit verification
// secret instead of the key provider.
func (e *Engine) ResolveIdentityWithSecret(cookies map[string]string, secretKey []byte) AuthState {
	if e.ready() != nil {
		return AuthState{Status: StatusRejected, Reason: ReasonKeyUnavailable}
	}
	return e.resolve(context.Background(), cookies, func(string) (secret.Key, RejectReason) {
		if len(secretKey) == 0 {
			return secret.Key{}, ReasonKeyUnavailable
		}
		return secret.Key{Secret: secretKey}, ReasonNone
	})
}

// ResolveRequest resolves the session carried by r's cookies.
func (e *Engine) ResolveRequest(r *http.Request) AuthState {
	ctx := context.Background()
	if r != nil {
		ctx = r.Context()
	}
	return e.ResolveIdentity(ctx, cookie.Incoming(r))
}

func (e *Engine) resolve(
	ctx context.Context,
	cookies map[string]string,
	keyFor func(token string) (secret.Key, RejectReason),
) AuthState {
	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricResolveLatency, time.Since(start))
	}()

	token, ok := e.transport.FromIncoming(cookies)
	if !ok {
		e.metrics.Inc(MetricSessionAnonymous)
		return AuthState{Status: StatusUnauthenticated}
	}

	key, reason := keyFor(token)
	if reason != ReasonNone {
		return e.reject(ctx, reason)
	}

	claims, err := e.codec.Verify(token, key)
	if err != nil {
		return e.reject(ctx, rejectReasonFor(err))
	}

	e.metrics.Inc(MetricSessionAuthenticated)
	return AuthState{
		Status: StatusAuthenticated,
		Identity: &Identity{
			Subject: claims.Principal(),
			Email:   claims.Email,
			Claims:  claims,
		},
	}
}

func (e *Engine) reject(ctx context.Context, reason RejectReason) AuthState {
	switch reason {
	case ReasonMalformed:
		e.metrics.Inc(MetricTokenRejectedMalformed)
	case ReasonSignatureMismatch:
		e.metrics.Inc(MetricTokenRejectedSignature)
	case ReasonExpired:
		e.metrics.Inc(MetricTokenRejectedExpired)
	case ReasonClaimsInvalid:
		e.metrics.Inc(MetricTokenRejectedClaims)
	case ReasonKeyUnavailable:
		e.metrics.Inc(MetricTokenRejectedKeyUnavailable)
	}
	e.logger.Debug("session rejected", "reason", reason.String())
	e.emitAudit(ctx, auditEventSessionRejected, false, "", "", nil, func() map[string]string {
		return map[string]string{"reason": reason.String()}
	})
	return AuthState{Status: StatusRejected, Reason: reason}
}

func rejectReasonFor(err error) RejectReason {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrSignatureMismatch):
		return ReasonSignatureMismatch
	case errors.Is(err, jwt.ErrClaimsInvalid):
		return ReasonClaimsInvalid
	case errors.Is(err, jwt.ErrEmptySecret):
		return ReasonKeyUnavailable
	default:
		return ReasonMalformed
	}
}

/*
====================================
LIFECYCLE
====================================
*/

// Close stops the Engine, waits for in-flight hashing and flushes audit events.
func (e *Engine) Close() {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.pool.Close()
	e.audit.Close()
}

// MetricsSnapshot returns a copy of the current metric values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{}
	}
	return e.metrics.Snapshot()
}

// AuditDropped returns how many audit events were dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}
