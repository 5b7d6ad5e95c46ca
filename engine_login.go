package goSession

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Login verifies plaintext against record and, on success, issues a session.
// Pass a nil record when the caller's store has no such subject: the attempt is
// still verified against a decoy hash, so both failures take the same time and
// both return ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, record *CredentialRecord, plaintext string) (*LoginResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	hash := e.decoyHash
	if record != nil && record.PasswordHash != "" {
		hash = record.PasswordHash
	}

	ok, err := e.VerifyCredential(ctx, plaintext, hash)
	if err != nil {
		return nil, err
	}
	if record == nil || record.PasswordHash == "" || !ok {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, subjectOf(record), "", ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	token, claims, err := e.IssueSession(ctx, record.claims())
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, record.Subject, "", err, nil)
		return nil, err
	}

	result := &LoginResult{
		Token:  token,
		Claims: claims,
		Cookie: e.BuildSessionCookie(token),
	}

	if e.config.Session.UpgradeOnLogin {
		if upgraded := e.upgradeHash(ctx, plaintext, hash); upgraded != "" {
			result.NewPasswordHash = upgraded
		}
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, claims.Principal(), claims.ID, nil, func() map[string]string {
		if result.NewPasswordHash == "" {
			return nil
		}
		return map[string]string{"hash_upgraded": "true"}
	})
	return result, nil
}

// upgradeHash rehashes plaintext when hash is weaker than the preferred
// configuration. Failures leave the stored hash in place.
func (e *Engine) upgradeHash(ctx context.Context, plaintext, hash string) string {
	needs, err := e.hashers.NeedsUpgrade(hash)
	if err != nil || !needs {
		return ""
	}
	upgraded, err := e.HashCredential(ctx, plaintext, 0)
	if err != nil {
		e.logger.Debug("password hash upgrade skipped", "error", err)
		return ""
	}
	return upgraded
}

// Logout returns the clearing directive for the session cookie. It always
// succeeds, even on a closed Engine. When the presented token still verifies,
// the subject is recorded in the audit trail.
func (e *Engine) Logout(ctx context.Context, cookies map[string]string) *http.Cookie {
	if e.ready() != nil {
		if e == nil || e.transport == nil {
			return nil
		}
		return e.transport.Clearing()
	}

	subject := ""
	if token, ok := e.transport.FromIncoming(cookies); ok {
		subject = e.sessionSubject(ctx, token)
	}

	e.metrics.Inc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, subject, "", nil, nil)
	return e.transport.Clearing()
}

// sessionSubject returns the principal of token when it verifies against the
// key provider, or "". Failures are not counted as rejections.
func (e *Engine) sessionSubject(ctx context.Context, token string) string {
	if e.keys == nil {
		return ""
	}
	kid, err := e.codec.KeyID(token)
	if err != nil {
		return ""
	}
	key, err := e.keys.VerificationKey(ctx, kid)
	if err != nil {
		return ""
	}
	claims, err := e.codec.Verify(token, key)
	if err != nil {
		return ""
	}
	return claims.Principal()
}

// Register hashes the supplied password for a new account. With
// Session.AutoLogin enabled the new account is also signed in.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: subject or email is required", ErrInvalidRegistration)
	}

	hash, err := e.HashCredential(ctx, req.Password, 0)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{PasswordHash: hash}
	tokenID := ""
	record := CredentialRecord{
		Subject:      req.Subject,
		Email:        req.Email,
		PasswordHash: hash,
		Attrs:        req.Attrs,
	}

	if e.config.Session.AutoLogin {
		token, claims, err := e.IssueSession(ctx, record.claims())
		if err != nil {
			return nil, err
		}
		result.Token = token
		result.Claims = claims
		result.Cookie = e.BuildSessionCookie(token)
		tokenID = claims.ID
	}

	e.metrics.Inc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, subjectOf(&record), tokenID, nil, nil)
	return result, nil
}

func subjectOf(r *CredentialRecord) string {
	if r == nil {
		return ""
	}
	if r.Subject != "" {
		return r.Subject
	}
	return r.Email
}
