package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/secret"
	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod names the HMAC construction used to sign tokens.
type SigningMethod string

const (
	// MethodHS256 signs with HMAC-SHA256. It is the default.
	MethodHS256 SigningMethod = "hs256"
	// MethodHS384 signs with HMAC-SHA384.
	MethodHS384 SigningMethod = "hs384"
	// MethodHS512 signs with HMAC-SHA512.
	MethodHS512 SigningMethod = "hs512"
)

const tokenType = "JWT"

// Config controls token issuance and verification.
type Config struct {
	SigningMethod SigningMethod
	Issuer        string
	Audience      string
	Leeway        time.Duration
	MaxFutureIAT  time.Duration
	// Clock overrides time.Now; intended for tests.
	Clock func() time.Time
}

// Codec signs claims into tokens and verifies tokens back into claims.
//
// Codec is immutable after NewCodec and safe for concurrent use.
type Codec struct {
	config    Config
	method    *gjwt.SigningMethodHMAC
	parser    *gjwt.Parser
	validator *gjwt.Validator
}

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
	Kid string `json:"kid,omitempty"`
}

// NewCodec validates cfg and returns a codec.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	var method *gjwt.SigningMethodHMAC
	switch cfg.SigningMethod {
	case MethodHS256:
		method = gjwt.SigningMethodHS256
	case MethodHS384:
		method = gjwt.SigningMethodHS384
	case MethodHS512:
		method = gjwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}

	options := []gjwt.ParserOption{
		gjwt.WithValidMethods([]string{method.Alg()}),
		gjwt.WithStrictDecoding(),
		gjwt.WithTimeFunc(cfg.Clock),
	}
	if cfg.Leeway > 0 {
		options = append(options, gjwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, gjwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, gjwt.WithAudience(cfg.Audience))
	}

	return &Codec{
		config:    cfg,
		method:    method,
		parser:    gjwt.NewParser(options...),
		validator: gjwt.NewValidator(options...),
	}, nil
}

// Algorithm returns the JOSE alg value stamped into issued headers.
func (c *Codec) Algorithm() string {
	return c.method.Alg()
}

// Issue signs claims with key, setting iat to now and exp to now+ttl. The exp
// claim has whole-second precision, so a positive ttl is rounded up to the next
// second and the token never expires early. A ttl of zero or less produces a
// token that is already expired. The returned claims are the ones actually
// signed; the input is not modified.
func (c *Codec) Issue(claims Claims, key secret.Key, ttl time.Duration) (string, *Claims, error) {
	now := c.config.Clock()
	exp := now.Add(ttl)
	if ttl > 0 {
		exp = ceilSecond(exp)
	}
	return c.issue(claims, key, now, &exp)
}

func ceilSecond(t time.Time) time.Time {
	if floor := t.Truncate(time.Second); floor.Before(t) {
		return floor.Add(time.Second)
	}
	return t
}

// IssueWithoutExpiry signs claims without an exp claim.
func (c *Codec) IssueWithoutExpiry(claims Claims, key secret.Key) (string, *Claims, error) {
	return c.issue(claims, key, c.config.Clock(), nil)
}

func (c *Codec) issue(claims Claims, key secret.Key, now time.Time, exp *time.Time) (string, *Claims, error) {
	if len(key.Secret) == 0 {
		return "", nil, ErrEmptySecret
	}

	signed := claims.Clone()
	signed.IssuedAt = gjwt.NewNumericDate(now)
	signed.ExpiresAt = nil
	if exp != nil {
		signed.ExpiresAt = gjwt.NewNumericDate(*exp)
	}
	if signed.ID == "" {
		signed.ID = uuid.NewString()
	}
	if c.config.Issuer != "" {
		signed.Issuer = c.config.Issuer
	}
	if c.config.Audience != "" {
		signed.Audience = gjwt.ClaimStrings{c.config.Audience}
	}

	token := gjwt.NewWithClaims(c.method, signed)
	if key.ID != "" {
		token.Header["kid"] = key.ID
	}

	out, err := token.SignedString(key.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return out, signed, nil
}

// Verify checks token against key and returns its claims. Any failure is total:
// no claims are returned alongside an error.
func (c *Codec) Verify(token string, key secret.Key) (*Claims, error) {
	if len(key.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	h, err := c.decodeHeader(parts[0])
	if err != nil {
		return nil, err
	}
	if h.Alg == "" || strings.EqualFold(h.Alg, "none") {
		return nil, fmt.Errorf("%w: unsigned token refused", ErrSignatureMismatch)
	}
	if h.Alg != c.method.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing algorithm %s", ErrSignatureMismatch, h.Alg)
	}
	if key.ID != "" && h.Kid != key.ID {
		return nil, fmt.Errorf("%w: key id mismatch", ErrSignatureMismatch)
	}

	sig, err := c.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable signature", ErrSignatureMismatch)
	}
	if err := c.method.Verify(parts[0]+"."+parts[1], sig, key.Secret); err != nil {
		return nil, ErrSignatureMismatch
	}

	payload, err := c.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding", ErrMalformedToken)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}

	if err := c.validator.Validate(claims); err != nil {
		if errors.Is(err, gjwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrClaimsInvalid, err)
	}
	if claims.IssuedAt != nil && c.config.MaxFutureIAT > 0 {
		maxAllowed := c.config.Clock().Add(c.config.MaxFutureIAT)
		if claims.IssuedAt.Time.After(maxAllowed) {
			return nil, fmt.Errorf("%w: iat too far in the future", ErrClaimsInvalid)
		}
	}

	return &claims, nil
}

// KeyID returns the kid header of token without verifying it. The value only
// selects a verification key and must not be trusted otherwise.
func (c *Codec) KeyID(token string) (string, error) {
	first, _, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrMalformedToken
	}
	h, err := c.decodeHeader(first)
	if err != nil {
		return "", err
	}
	return h.Kid, nil
}

// ExpiresAt returns the unverified exp claim of token.
func (c *Codec) ExpiresAt(token string) (time.Time, bool) {
	var claims Claims
	if _, _, err := c.parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (c *Codec) decodeHeader(segment string) (header, error) {
	var h header
	raw, err := c.parser.DecodeSegment(segment)
	if err != nil {
		return h, fmt.Errorf("%w: header encoding", ErrMalformedToken)
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	if h.Typ != "" && h.Typ != tokenType {
		return h, fmt.Errorf("%w: unexpected token type %q", ErrMalformedToken, h.Typ)
	}
	return h, nil
}
