package keymint

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/keymint/keymint/internal/rate"
)

// Exchange trades a username/password credential for a freshly signed bearer
// token. On success the response expiry is epoch milliseconds; the signed exp
// claim is the same instant floored to whole seconds.
//
// Unknown username, wrong password, a corrupt credential record, and a store
// outage during lookup all return [ErrInvalidCredentials]; nothing in the
// error or its timing distinguishes them beyond the hashing cost itself.
func (e *Engine) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	if err := validateExchangeShape(req); err != nil {
		e.metricInc(MetricExchangeRejected)
		e.emitAudit(ctx, auditEventExchangeRejected, false, "", err, func() map[string]string {
			return map[string]string{"from": req.From, "to": req.To}
		})
		return nil, err
	}

	username := normalizeUsername(req.Username)
	ip := clientIPFromContext(ctx)

	if e.limiter != nil {
		if err := e.limiter.Check(ctx, username, ip); err != nil {
			// A limiter backend outage denies the exchange rather than
			// bypassing the throttle.
			e.metricInc(MetricExchangeRateLimited)
			e.emitAudit(ctx, auditEventExchangeRateLimited, false, "", ErrExchangeRateLimited, func() map[string]string {
				return map[string]string{"username": username}
			})
			return nil, ErrExchangeRateLimited
		}
	}

	record, err := e.lookupCredential(ctx, username)
	if err != nil {
		return nil, e.failExchange(ctx, username)
	}

	ok, err := e.hasher.Verify(req.Password, record.Hash)
	if err != nil || !ok {
		return nil, e.failExchange(ctx, username)
	}

	e.maybeUpgradeHash(ctx, username, req.Password, record)

	if e.limiter != nil {
		_ = e.limiter.Reset(ctx, username, ip)
	}

	issued, err := e.issuer.Issue(ctx, record.Identity, e.config.Token.Validity)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventIssuanceFailure, false, record.Identity, ErrIssuanceFailed, nil)
		return nil, ErrIssuanceFailed
	}

	e.metricInc(MetricExchangeSuccess)
	e.emitAudit(ctx, auditEventExchangeSuccess, true, record.Identity, nil, func() map[string]string {
		return map[string]string{"kid": issued.KeyID}
	})

	return &ExchangeResult{
		Token:     issued.Token,
		TokenType: TokenTypeBearer,
		ExpiresAt: issued.ExpiresAt.UnixMilli(),
	}, nil
}

func validateExchangeShape(req ExchangeRequest) error {
	if req.From != CredentialKindPassword {
		return ErrUnsupportedSourceKind
	}
	if req.To != TokenKindBearer {
		return ErrUnsupportedTargetKind
	}
	if normalizeUsername(req.Username) == "" {
		return ErrUsernameRequired
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

func (e *Engine) lookupCredential(ctx context.Context, username string) (*credentialRecord, error) {
	raw, err := e.store.Get(ctx, credentialKey(username))
	if err != nil {
		return nil, err
	}

	var record credentialRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}
	if record.Hash == "" || record.Identity == "" {
		return nil, errors.New("incomplete credential record")
	}

	return &record, nil
}

// failExchange is the single exit for authentication failures. It charges the
// throttle budget, and when that budget is now spent it reports rate limiting
// instead of invalid credentials.
func (e *Engine) failExchange(ctx context.Context, username string) error {
	result := ErrInvalidCredentials

	if e.limiter != nil {
		ip := clientIPFromContext(ctx)
		if err := e.limiter.Increment(ctx, username, ip); errors.Is(err, rate.ErrRateLimited) {
			result = ErrExchangeRateLimited
		}
	}

	if errors.Is(result, ErrExchangeRateLimited) {
		e.metricInc(MetricExchangeRateLimited)
		e.emitAudit(ctx, auditEventExchangeRateLimited, false, "", result, func() map[string]string {
			return map[string]string{"username": username}
		})
	} else {
		e.metricInc(MetricExchangeFailure)
		e.emitAudit(ctx, auditEventExchangeFailure, false, "", result, func() map[string]string {
			return map[string]string{"username": username}
		})
	}

	return result
}

// maybeUpgradeHash transparently re-hashes a credential whose stored hash
// uses weaker cost parameters than the current configuration. Best effort: a
// failed upgrade never fails the exchange.
func (e *Engine) maybeUpgradeHash(ctx context.Context, username, plaintext string, record *credentialRecord) {
	if !e.config.Password.UpgradeOnExchange {
		return
	}

	stale, err := e.hasher.NeedsRehash(record.Hash)
	if err != nil || !stale {
		return
	}

	rehashed, err := e.hasher.Hash(plaintext)
	if err != nil {
		return
	}

	updated, err := json.Marshal(credentialRecord{Hash: rehashed, Identity: record.Identity})
	if err != nil {
		return
	}
	_ = e.store.Set(ctx, credentialKey(username), string(updated), 0)
}
