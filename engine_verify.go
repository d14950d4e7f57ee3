package keymint

import (
	"context"
	"errors"
	"time"

	"github.com/keymint/keymint/token"
)

// VerifyBearer validates a bearer token string and returns the identity it
// was issued to. Verification is offline except for one store read of the
// token's verification key.
func (e *Engine) VerifyBearer(ctx context.Context, bearer string) (string, error) {
	if e == nil || e.verifier == nil {
		return "", ErrEngineNotReady
	}

	start := time.Now()
	identity, err := e.verifier.Verify(ctx, bearer)
	e.observeVerify(time.Since(start))

	if err != nil {
		mapped := mapVerifyError(err)
		e.metricInc(verifyFailureMetric(mapped))
		e.emitAudit(ctx, auditEventBearerRejected, false, "", mapped, nil)
		return "", mapped
	}

	e.metricInc(MetricVerifySuccess)
	return identity, nil
}

func (e *Engine) observeVerify(d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(MetricVerifyLatency, d)
}

func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, token.ErrSignature):
		return ErrTokenSignature
	case errors.Is(err, token.ErrUnknownKey):
		return ErrTokenUnknownKey
	default:
		return ErrTokenMalformed
	}
}

func verifyFailureMetric(err error) MetricID {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return MetricVerifyExpired
	case errors.Is(err, ErrTokenSignature):
		return MetricVerifySignature
	case errors.Is(err, ErrTokenUnknownKey):
		return MetricVerifyUnknownKey
	default:
		return MetricVerifyMalformed
	}
}
