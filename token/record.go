package token

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// AlgorithmRS256 is the only signature scheme issued or accepted.
const AlgorithmRS256 = "RS256"

// keyRecordPrefix namespaces verification-key records in the store.
const keyRecordPrefix = "jwt-key:"

// KeyRecord is the stored public half of a token's key pair. It lives under
// jwt-key:<kid> with a TTL equal to the token's validity window, so the
// record and the token it authenticates expire together.
type KeyRecord struct {
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"publicKey"` // PKIX, PEM-encoded
}

func keyRecordKey(kid string) string {
	return keyRecordPrefix + kid
}

func encodePublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

func decodePublicKey(encoded string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil {
		return nil, errors.New("not PEM encoded")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected key type %T", parsed)
	}
	return pub, nil
}
