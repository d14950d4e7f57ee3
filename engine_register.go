package keymint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/keymint/keymint/store"
)

// CreateCredential registers a username/password credential. The username is
// normalized before storage, the password is hashed with the configured
// Argon2id parameters, and the write is conditional: an existing record is
// never overwritten.
func (e *Engine) CreateCredential(ctx context.Context, req CreateCredentialRequest) (*CreateCredentialResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	username := normalizeUsername(req.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
	}

	identity := req.Identity
	if identity == "" {
		identity = uuid.NewString()
	}

	record, err := json.Marshal(credentialRecord{Hash: hash, Identity: identity})
	if err != nil {
		return nil, fmt.Errorf("%w: encode record: %v", ErrCredentialUnavailable, err)
	}

	created, err := e.store.SetNX(ctx, credentialKey(username), string(record), 0)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return nil, ErrCredentialUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if !created {
		e.metricInc(MetricCredentialDuplicate)
		e.emitAudit(ctx, auditEventCredentialDuplicate, false, "", ErrCredentialExists, func() map[string]string {
			return map[string]string{"username": username}
		})
		return nil, ErrCredentialExists
	}

	e.metricInc(MetricCredentialCreated)
	e.emitAudit(ctx, auditEventCredentialCreated, true, identity, nil, func() map[string]string {
		return map[string]string{"username": username}
	})

	return &CreateCredentialResult{Identity: identity}, nil
}
