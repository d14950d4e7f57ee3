package keymint

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventExchangeSuccess     = "exchange_success"
	auditEventExchangeFailure     = "exchange_failure"
	auditEventExchangeRejected    = "exchange_rejected"
	auditEventExchangeRateLimited = "exchange_rate_limited"
	auditEventCredentialCreated   = "credential_created"
	auditEventCredentialDuplicate = "credential_duplicate"
	auditEventIssuanceFailure     = "issuance_failure"
	auditEventBearerRejected      = "bearer_rejected"
)

// AuditErrorCode is the stable error label attached to failed audit events.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrUnsupportedKind    AuditErrorCode = "unsupported_kind"
	auditErrValidation         AuditErrorCode = "validation"
	auditErrIssuance           AuditErrorCode = "issuance_failed"
	auditErrTokenMalformed     AuditErrorCode = "token_malformed"
	auditErrTokenUnknownKey    AuditErrorCode = "token_unknown_key"
	auditErrTokenSignature     AuditErrorCode = "token_signature"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrPasswordPolicy     AuditErrorCode = "password_policy"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identity string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Identity:  identity,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrExchangeRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrUnsupportedSourceKind),
		errors.Is(err, ErrUnsupportedTargetKind):
		return auditErrUnsupportedKind
	case errors.Is(err, ErrUsernameRequired),
		errors.Is(err, ErrPasswordRequired):
		return auditErrValidation
	case errors.Is(err, ErrIssuanceFailed):
		return auditErrIssuance
	case errors.Is(err, ErrTokenMalformed):
		return auditErrTokenMalformed
	case errors.Is(err, ErrTokenUnknownKey):
		return auditErrTokenUnknownKey
	case errors.Is(err, ErrTokenSignature):
		return auditErrTokenSignature
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrCredentialExists):
		return auditErrDuplicate
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrCredentialUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
