package keymint

import (
	"github.com/keymint/keymint/internal/rate"
	"github.com/keymint/keymint/password"
	"github.com/keymint/keymint/store"
	"github.com/keymint/keymint/token"
)

// Engine is the credential exchange orchestrator. Construct it through
// [Builder.Build]; a zero or nil Engine fails every operation with
// [ErrEngineNotReady].
type Engine struct {
	config   Config
	store    store.Store
	hasher   *password.Hasher
	issuer   *token.Issuer
	verifier *token.Verifier
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes the audit dispatcher and releases any store owned by the
// Engine. Idempotent.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the current counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Metrics exposes the live counter set, primarily for exporters.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}
