package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keymint/keymint/store"
)

var (
	// ErrMalformed covers absent, undecodable, or structurally invalid
	// tokens, including a missing kid header.
	ErrMalformed = errors.New("token: malformed")

	// ErrUnknownKey means no verification key is available for the token's
	// kid. Eviction, revocation, and store outage all land here on purpose.
	ErrUnknownKey = errors.New("token: unknown or expired key")

	// ErrSignature covers signature mismatch and algorithm mismatch.
	ErrSignature = errors.New("token: invalid signature")

	// ErrExpired means the token's exp claim has elapsed.
	ErrExpired = errors.New("token: expired")
)

// Verifier checks bearer tokens against stored verification keys. Safe for
// concurrent use; it tolerates key records being evicted mid-verification.
type Verifier struct {
	store store.Store
	now   func() time.Time
}

// NewVerifier creates a Verifier reading verification keys from st.
func NewVerifier(st store.Store, opts ...Option) *Verifier {
	o := applyOptions(opts)
	return &Verifier{store: st, now: o.now}
}

// Verify validates the signature and expiry of tokenStr and returns the
// authenticated identity (the sub claim). Every failure maps to exactly one
// of ErrMalformed, ErrUnknownKey, ErrSignature, or ErrExpired.
func (v *Verifier) Verify(ctx context.Context, tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", fmt.Errorf("%w: empty token", ErrMalformed)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{AlgorithmRS256}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, v.keyFunc(ctx))
	if err != nil {
		return "", classifyParseError(err)
	}

	// Second expiry check against our own clock. The parser already
	// validated exp, but store eviction lag must never widen the window.
	if claims.ExpiresAt == nil || !v.now().Before(claims.ExpiresAt.Time) {
		return "", ErrExpired
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing sub claim", ErrMalformed)
	}

	return claims.Subject, nil
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrMalformed)
		}

		raw, err := v.store.Get(ctx, keyRecordKey(kid))
		if err != nil {
			// Absent, evicted, and unreachable are one failure mode.
			return nil, fmt.Errorf("%w: kid %s", ErrUnknownKey, kid)
		}

		var record KeyRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("%w: corrupt key record", ErrUnknownKey)
		}
		if record.Algorithm != t.Method.Alg() {
			return nil, fmt.Errorf("%w: algorithm mismatch", ErrSignature)
		}

		pub, err := decodePublicKey(record.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: unusable key record", ErrUnknownKey)
		}
		return pub, nil
	}
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrMalformed),
		errors.Is(err, ErrUnknownKey),
		errors.Is(err, ErrSignature):
		// Keyfunc failures propagate wrapped through the parser.
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
