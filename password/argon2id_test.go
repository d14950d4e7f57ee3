package password

import (
	"errors"
	"strings"
	"testing"
)

func testParams() Params {
	return Params{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newTestHasher(t *testing.T, p Params) *Hasher {
	t.Helper()

	h, err := NewHasher(p)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := newTestHasher(t, testParams())

	encoded, err := h.Hash("wonderland")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected encoding: %q", encoded)
	}

	ok, err := h.Verify("wonderland", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = h.Verify("wrong-password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	h := newTestHasher(t, testParams())

	first, err := h.Hash("wonderland")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("wonderland")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct encodings")
	}
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := newTestHasher(t, testParams())

	if _, err := h.Hash("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	weak := newTestHasher(t, testParams())

	encoded, err := weak.Hash("wonderland")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	same, err := weak.NeedsRehash(encoded)
	if err != nil || same {
		t.Fatalf("expected no rehash for equal params, got %v err=%v", same, err)
	}

	stronger := testParams()
	stronger.Time = 3
	upgraded := newTestHasher(t, stronger)

	need, err := upgraded.NeedsRehash(encoded)
	if err != nil {
		t.Fatalf("NeedsRehash failed: %v", err)
	}
	if !need {
		t.Fatal("expected rehash after raising time cost")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := newTestHasher(t, testParams())

	for _, encoded := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
	} {
		if _, err := h.Verify("wonderland", encoded); err == nil {
			t.Fatalf("expected error for %q", encoded)
		}
	}
}

func TestNewHasherRejectsWeakParams(t *testing.T) {
	weak := testParams()
	weak.Memory = 1024

	if _, err := NewHasher(weak); err == nil {
		t.Fatal("expected error for sub-minimum memory")
	}
}
