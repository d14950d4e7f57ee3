package test

import (
	"context"
	"net/http"
	"testing"

	keymint "github.com/keymint/keymint"
	"github.com/keymint/keymint/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = keymint.New

	var _ *keymint.Engine
	var _ keymint.Config
	var _ keymint.ExchangeRequest
	var _ keymint.ExchangeResult
	var _ keymint.CreateCredentialRequest
	var _ keymint.CreateCredentialResult
	var _ keymint.AuditSink
	var _ keymint.AuditEvent
	var _ keymint.MetricsSnapshot

	var _ error = keymint.ErrInvalidCredentials
	var _ error = keymint.ErrExchangeRateLimited
	var _ error = keymint.ErrUnsupportedSourceKind
	var _ error = keymint.ErrUnsupportedTargetKind
	var _ error = keymint.ErrIssuanceFailed
	var _ error = keymint.ErrTokenMalformed
	var _ error = keymint.ErrTokenUnknownKey
	var _ error = keymint.ErrTokenSignature
	var _ error = keymint.ErrTokenExpired
	var _ error = keymint.ErrCredentialExists

	var _ func(*keymint.Engine) func(http.Handler) http.Handler = middleware.Guard
	var _ func(context.Context) (string, bool) = middleware.IdentityFromContext

	var _ func(*keymint.Engine, context.Context, keymint.ExchangeRequest) (*keymint.ExchangeResult, error) = (*keymint.Engine).Exchange
	var _ func(*keymint.Engine, context.Context, string) (string, error) = (*keymint.Engine).VerifyBearer
	var _ func(*keymint.Engine, context.Context, keymint.CreateCredentialRequest) (*keymint.CreateCredentialResult, error) = (*keymint.Engine).CreateCredential
}
