package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultName is the cookie name used when Config.Name is empty.
	DefaultName = "session"
	// DefaultPath is the cookie path used when Config.Path is empty.
	DefaultPath = "/"
)

// ErrInvalidConfig reports an unusable cookie configuration.
var ErrInvalidConfig = errors.New("invalid cookie configuration")

// Config shapes the emitted directives.
type Config struct {
	Name     string
	Path     string
	Domain string
	// Insecure drops the Secure attribute so the cookie also travels over plain
	// HTTP. Directives are Secure unless this is set.
	Insecure bool
	SameSite http.SameSite
	// Clock overrides time.Now; intended for tests.
	Clock func() time.Time
}

// DefaultConfig returns a secure, SameSite=Lax configuration for the
// "session" cookie.
func DefaultConfig() Config {
	return Config{
		Name:     DefaultName,
		Path:     DefaultPath,
		SameSite: http.SameSiteLaxMode,
	}
}

// Transport converts tokens to and from cookies. It is immutable after New and
// safe for concurrent use.
type Transport struct {
	config Config
}

// New validates cfg, fills empty fields with defaults and returns a transport.
func New(cfg Config) (*Transport, error) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if strings.ContainsAny(cfg.Name, " \t\r\n;,=") {
		return nil, fmt.Errorf("%w: cookie name %q", ErrInvalidConfig, cfg.Name)
	}
	if cfg.SameSite == http.SameSiteNoneMode && cfg.Insecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure", ErrInvalidConfig)
	}
	return &Transport{config: cfg}, nil
}

// Name returns the configured cookie name.
func (t *Transport) Name() string {
	return t.config.Name
}

// Directive returns a cookie carrying token for ttl. MaxAge is the whole number
// of seconds in ttl; anything below one second expires the cookie at once.
func (t *Transport) Directive(token string, ttl time.Duration) *http.Cookie {
	c := t.base()
	c.Value = token

	seconds := int(ttl / time.Second)
	if seconds < 1 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		return c
	}
	c.MaxAge = seconds
	c.Expires = t.config.Clock().Add(time.Duration(seconds) * time.Second).UTC()
	return c
}

// Clearing returns a directive that makes the client discard the cookie.
func (t *Transport) Clearing() *http.Cookie {
	c := t.base()
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

// FromIncoming looks up the session cookie in a name to value map. An absent or
// empty value reports false.
func (t *Transport) FromIncoming(cookies map[string]string) (string, bool) {
	v, ok := cookies[t.config.Name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FromRequest reads the session cookie from r.
func (t *Transport) FromRequest(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(t.config.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Incoming converts request cookies to the map form accepted by FromIncoming.
// The first value wins when a name repeats.
func Incoming(r *http.Request) map[string]string {
	out := make(map[string]string)
	if r == nil {
		return out
	}
	for _, c := range r.Cookies() {
		if _, seen := out[c.Name]; !seen {
			out[c.Name] = c.Value
		}
	}
	return out
}

func (t *Transport) base() *http.Cookie {
	return &http.Cookie{
		Name:     t.config.Name,
		Path:     t.config.Path,
		Domain:   t.config.Domain,
		HttpOnly: true,
		Secure:   !t.config.Insecure,
		SameSite: t.config.SameSite,
	}
}

// ParseSameSite maps "lax", "strict", "none" or "default" to an http.SameSite.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	case "default":
		return http.SameSiteDefaultMode, nil
	default:
		return 0, fmt.Errorf("%w: unknown SameSite %q", ErrInvalidConfig, s)
	}
}
