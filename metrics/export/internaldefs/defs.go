package internaldefs

import (
	"math"

	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef names one exported latency histogram.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in export order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricCredentialHashed, Name: "gosession_credential_hashed_total", Help: "Credentials hashed."},
	{ID: goSession.MetricCredentialHashFailure, Name: "gosession_credential_hash_failure_total", Help: "Hash requests refused or failed."},
	{ID: goSession.MetricCredentialMatch, Name: "gosession_credential_match_total", Help: "Credential verifications that matched."},
	{ID: goSession.MetricCredentialMismatch, Name: "gosession_credential_mismatch_total", Help: "Credential verifications that did not match."},
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful logins."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Failed logins."},
	{ID: goSession.MetricRegisterSuccess, Name: "gosession_register_success_total", Help: "Successful registrations."},
	{ID: goSession.MetricTokenIssued, Name: "gosession_token_issued_total", Help: "Session tokens issued."},
	{ID: goSession.MetricTokenRejectedMalformed, Name: "gosession_token_rejected_malformed_total", Help: "Tokens rejected as malformed."},
	{ID: goSession.MetricTokenRejectedSignature, Name: "gosession_token_rejected_signature_total", Help: "Tokens rejected for a signature mismatch."},
	{ID: goSession.MetricTokenRejectedExpired, Name: "gosession_token_rejected_expired_total", Help: "Tokens rejected as expired."},
	{ID: goSession.MetricTokenRejectedClaims, Name: "gosession_token_rejected_claims_total", Help: "Tokens rejected for invalid claims."},
	{ID: goSession.MetricTokenRejectedKeyUnavailable, Name: "gosession_token_rejected_key_unavailable_total", Help: "Tokens not verifiable because no key was available."},
	{ID: goSession.MetricSessionAuthenticated, Name: "gosession_session_authenticated_total", Help: "Requests resolved to an identity."},
	{ID: goSession.MetricSessionAnonymous, Name: "gosession_session_anonymous_total", Help: "Requests without a session cookie."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logouts."},
}

// HistogramDefs lists every latency histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricHashLatency, Name: "gosession_hash_latency_seconds", Help: "Credential hash and verify latency."},
	{ID: goSession.MetricResolveLatency, Name: "gosession_resolve_latency_seconds", Help: "Session resolution latency."},
}

// AuditDroppedName is the counter of audit events dropped under backpressure.
const AuditDroppedName = "gosession_audit_dropped_total"

// HistogramBounds are the bucket upper bounds in seconds, as exposition labels.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramUpperBounds mirrors HistogramBounds numerically.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, math.Inf(1)}

// HistogramBoundSuffix is HistogramBounds made safe for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling missing
// buckets and ignoring extras.
func NormalizeBuckets(raw []uint64) [goSession.HistBucketCount]uint64 {
	var out [goSession.HistBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [goSession.HistBucketCount]uint64) [goSession.HistBucketCount]uint64 {
	var out [goSession.HistBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
