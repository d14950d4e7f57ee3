package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const phcAlgorithm = "argon2id"

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltBytes   uint32 = 16
	minKeyBytes    uint32 = 16
	minPasswordLen        = 8
)

// ErrWeakPassword is returned by Hash when the plaintext is below the
// minimum length.
var ErrWeakPassword = errors.New("password: below minimum length")

// Params are the Argon2id cost parameters used for new hashes. Stored
// hashes carry their own parameters and are unaffected by changes here.
type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher hashes and verifies passwords. Safe for concurrent use.
type Hasher struct {
	params Params
}

// NewHasher validates the cost parameters and returns a Hasher.
func NewHasher(p Params) (*Hasher, error) {
	switch {
	case p.Memory < minMemoryKB:
		return nil, fmt.Errorf("password: memory must be >= %d KiB", minMemoryKB)
	case p.Time < minTimeCost:
		return nil, errors.New("password: time cost must be >= 1")
	case p.Parallelism < minParallelism:
		return nil, errors.New("password: parallelism must be >= 1")
	case p.SaltLength < minSaltBytes:
		return nil, fmt.Errorf("password: salt length must be >= %d", minSaltBytes)
	case p.KeyLength < minKeyBytes:
		return nil, fmt.Errorf("password: key length must be >= %d", minKeyBytes)
	}
	return &Hasher{params: p}, nil
}

// Hash derives a PHC-encoded Argon2id hash from the plaintext with a fresh
// random salt. Plaintext bytes are used exactly as provided, without Unicode
// normalization.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) < minPasswordLen {
		return "", ErrWeakPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("password: salt generation: %w", err)
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		h.params.Time,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		phcAlgorithm,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash with the parameters encoded in encodedHash and
// compares in constant time. A false return with nil error means the
// password simply did not match; a non-nil error means the stored hash is
// unusable.
func (h *Hasher) Verify(plaintext, encodedHash string) (bool, error) {
	decoded, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(plaintext),
		decoded.salt,
		decoded.time,
		decoded.memory,
		decoded.parallelism,
		uint32(len(decoded.key)),
	)

	return subtle.ConstantTimeCompare(computed, decoded.key) == 1, nil
}

// NeedsRehash reports whether encodedHash was produced with parameters
// weaker than the configured ones.
func (h *Hasher) NeedsRehash(encodedHash string) (bool, error) {
	decoded, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	if h.params.Memory > decoded.memory ||
		h.params.Time > decoded.time ||
		h.params.Parallelism > decoded.parallelism ||
		h.params.KeyLength != uint32(len(decoded.key)) {
		return true, nil
	}
	return false, nil
}

type phcHash struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func decodePHC(encoded string) (*phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("password: invalid PHC format")
	}
	if parts[1] != phcAlgorithm {
		return nil, errors.New("password: unsupported algorithm")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("password: missing argon2 version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errors.New("password: unsupported argon2 version")
	}

	out := &phcHash{}
	if err := decodeParams(parts[3], out); err != nil {
		return nil, err
	}

	var err error
	out.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || uint32(len(out.salt)) < minSaltBytes {
		return nil, errors.New("password: invalid salt")
	}
	out.key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(out.key) == 0 {
		return nil, errors.New("password: invalid hash")
	}

	return out, nil
}

func decodeParams(encoded string, out *phcHash) error {
	var seen int
	for _, pair := range strings.Split(encoded, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.New("password: invalid parameter entry")
		}
		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minMemoryKB {
				return errors.New("password: invalid memory parameter")
			}
			out.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minTimeCost {
				return errors.New("password: invalid time parameter")
			}
			out.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || uint8(v) < minParallelism {
				return errors.New("password: invalid parallelism parameter")
			}
			out.parallelism = uint8(v)
		default:
			return errors.New("password: unsupported parameter")
		}
		seen++
	}
	if seen != 3 {
		return errors.New("password: missing parameters")
	}
	return nil
}
