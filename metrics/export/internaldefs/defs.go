package internaldefs

import (
	keymint "github.com/keymint/keymint"
)

// CounterDef binds a core counter to its exported metric name.
type CounterDef struct {
	ID   keymint.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram to its exported metric name.
type HistogramDef struct {
	ID   keymint.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: keymint.MetricExchangeSuccess, Name: "keymint_exchange_success_total", Help: "Successful credential exchanges."},
	{ID: keymint.MetricExchangeFailure, Name: "keymint_exchange_failure_total", Help: "Credential exchanges rejected as invalid credentials."},
	{ID: keymint.MetricExchangeRateLimited, Name: "keymint_exchange_rate_limited_total", Help: "Rate-limited credential exchanges."},
	{ID: keymint.MetricExchangeRejected, Name: "keymint_exchange_rejected_total", Help: "Credential exchanges rejected before authentication for a malformed request."},
	{ID: keymint.MetricCredentialCreated, Name: "keymint_credential_created_total", Help: "Created credentials."},
	{ID: keymint.MetricCredentialDuplicate, Name: "keymint_credential_duplicate_total", Help: "Credential creations rejected as duplicate."},
	{ID: keymint.MetricIssueFailure, Name: "keymint_issue_failure_total", Help: "Token issuance failures after successful authentication."},
	{ID: keymint.MetricVerifySuccess, Name: "keymint_verify_success_total", Help: "Successful bearer verifications."},
	{ID: keymint.MetricVerifyMalformed, Name: "keymint_verify_malformed_total", Help: "Bearer tokens rejected as malformed."},
	{ID: keymint.MetricVerifyUnknownKey, Name: "keymint_verify_unknown_key_total", Help: "Bearer tokens rejected for an unknown or expired signing key."},
	{ID: keymint.MetricVerifySignature, Name: "keymint_verify_signature_total", Help: "Bearer tokens rejected for an invalid signature."},
	{ID: keymint.MetricVerifyExpired, Name: "keymint_verify_expired_total", Help: "Bearer tokens rejected as expired."},
}

var HistogramDefs = []HistogramDef{
	{ID: keymint.MetricVerifyLatency, Name: "keymint_verify_latency_seconds", Help: "Bearer verification latency histogram."},
}

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

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
