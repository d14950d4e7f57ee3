package token

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/keymint/keymint/store"
)

// ErrIssuance is returned when any step of issuance fails. Issuance is
// all-or-nothing: on error no token is returned and no usable partial
// state remains.
var ErrIssuance = errors.New("token: issuance failed")

const defaultKeyBits = 2048

// Option configures an [Issuer] or [Verifier].
type Option func(*options)

type options struct {
	keyBits int
	now     func() time.Time
}

// WithKeyBits sets the RSA modulus size for generated key pairs.
func WithKeyBits(bits int) Option {
	return func(o *options) { o.keyBits = bits }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func applyOptions(opts []Option) options {
	o := options{keyBits: defaultKeyBits, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Issuer mints signed bearer tokens. Safe for concurrent use; concurrent
// issuances never contend because every token gets its own kid.
type Issuer struct {
	store   store.Store
	keyBits int
	now     func() time.Time
}

// NewIssuer creates an Issuer persisting verification keys into st.
func NewIssuer(st store.Store, opts ...Option) *Issuer {
	o := applyOptions(opts)
	return &Issuer{store: st, keyBits: o.keyBits, now: o.now}
}

// Issued is the result of a successful issuance.
type Issued struct {
	Token     string
	KeyID     string
	ExpiresAt time.Time
}

// Issue signs a bearer token for identity, valid for the given window.
//
// The sequence is fixed: generate key pair, sign, persist the public half,
// return — the private key is dropped after signing and the token string is
// only released once its verification key is stored. The signed exp claim is
// whole seconds (the floor of the millisecond expiry); callers exposing a
// millisecond expiresAt use [Issued.ExpiresAt].
func (i *Issuer) Issue(ctx context.Context, identity string, validity time.Duration) (*Issued, error) {
	if identity == "" {
		return nil, fmt.Errorf("%w: empty identity", ErrIssuance)
	}
	if validity <= 0 {
		return nil, fmt.Errorf("%w: non-positive validity", ErrIssuance)
	}

	key, err := rsa.GenerateKey(rand.Reader, i.keyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: generate key pair: %v", ErrIssuance, err)
	}

	expiresAt := i.now().Add(validity)
	kid := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   identity,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	unsigned.Header["kid"] = kid

	signed, err := unsigned.SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %v", ErrIssuance, err)
	}

	encoded, err := encodePublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encode public key: %v", ErrIssuance, err)
	}
	record, err := json.Marshal(KeyRecord{Algorithm: AlgorithmRS256, PublicKey: encoded})
	if err != nil {
		return nil, fmt.Errorf("%w: encode key record: %v", ErrIssuance, err)
	}

	if err := i.store.Set(ctx, keyRecordKey(kid), string(record), validity); err != nil {
		return nil, fmt.Errorf("%w: persist verification key: %v", ErrIssuance, err)
	}

	// The private key goes out of scope here and is never stored or reused.
	return &Issued{Token: signed, KeyID: kid, ExpiresAt: expiresAt}, nil
}
