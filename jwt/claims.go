package jwt

import (
	"maps"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. Application attributes are restricted
// to string values so a verified token never needs type assertions.
type Claims struct {
	Email string            `json:"email,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
	gjwt.RegisteredClaims
}

// Principal returns the subject, falling back to the email claim.
func (c *Claims) Principal() string {
	if c == nil {
		return ""
	}
	if c.Subject != "" {
		return c.Subject
	}
	return c.Email
}

// Clone returns a deep copy of c.
func (c *Claims) Clone() *Claims {
	if c == nil {
		return nil
	}
	out := *c
	out.Attrs = maps.Clone(c.Attrs)
	if c.Audience != nil {
		out.Audience = append(gjwt.ClaimStrings(nil), c.Audience...)
	}
	return &out
}
