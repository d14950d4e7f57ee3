package keymint

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func mustCreateCredential(t *testing.T, e *Engine, username, pass, identity string) string {
	t.Helper()

	res, err := e.CreateCredential(context.Background(), CreateCredentialRequest{
		Username: username,
		Password: pass,
		Identity: identity,
	})
	if err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}
	return res.Identity
}

func passwordExchange(username, pass string) ExchangeRequest {
	return ExchangeRequest{
		From:     CredentialKindPassword,
		Username: username,
		Password: pass,
		To:       TokenKindBearer,
	}
}

func decodeSubject(t *testing.T, tokenStr string) string {
	t.Helper()

	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact JWS, got %d parts", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	var claims struct {
		Sub string `json:"sub"`
		Exp int64  `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return claims.Sub
}

func TestExchangeSuccess(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	identity := mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	res, err := engine.Exchange(context.Background(), passwordExchange("alice", "wonderland-1"))
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	if res.TokenType != TokenTypeBearer {
		t.Fatalf("expected bearer token type, got %q", res.TokenType)
	}
	if sub := decodeSubject(t, res.Token); sub != identity {
		t.Fatalf("expected sub %q, got %q", identity, sub)
	}

	wantExpiry := time.Now().Add(testConfig().Token.Validity).UnixMilli()
	if res.ExpiresAt < wantExpiry-5000 || res.ExpiresAt > wantExpiry+5000 {
		t.Fatalf("expiresAt %d not near %d", res.ExpiresAt, wantExpiry)
	}
}

func TestExchangeExpUnitContract(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	res, err := engine.Exchange(context.Background(), passwordExchange("alice", "wonderland-1"))
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	parts := strings.Split(res.Token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	// exp is whole seconds; the response expiry is the same instant in
	// milliseconds, so exp*1000 <= expiresAt < exp*1000 + 1000.
	expMS := claims.Exp * 1000
	if res.ExpiresAt < expMS || res.ExpiresAt >= expMS+1000 {
		t.Fatalf("expiresAt %d disagrees with exp %d", res.ExpiresAt, claims.Exp)
	}
}

func TestExchangeUsernameNormalization(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	mustCreateCredential(t, engine, "  Alice ", "wonderland-1", "user-42")

	if _, err := engine.Exchange(context.Background(), passwordExchange("ALICE", "wonderland-1")); err != nil {
		t.Fatalf("expected case-folded username to match: %v", err)
	}
}

func TestExchangeWrongPassword(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	_, err := engine.Exchange(context.Background(), passwordExchange("alice", "hearts"))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestExchangeUnknownUserIndistinguishable(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	_, wrongPass := engine.Exchange(context.Background(), passwordExchange("alice", "hearts"))
	_, unknownUser := engine.Exchange(context.Background(), passwordExchange("bob", "hearts"))

	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials twice, got %v / %v", wrongPass, unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPass, unknownUser)
	}
}

func TestExchangeStoreOutageFailsClosed(t *testing.T) {
	engine, mr := newTestEngine(t, testConfig())
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	mr.Close()

	_, err := engine.Exchange(context.Background(), passwordExchange("alice", "wonderland-1"))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on store outage, got %v", err)
	}
}

func TestExchangeShapeValidation(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	cases := []struct {
		name string
		req  ExchangeRequest
		want error
	}{
		{"bad source kind", ExchangeRequest{From: "api-key", Username: "alice", Password: "x", To: TokenKindBearer}, ErrUnsupportedSourceKind},
		{"bad target kind", ExchangeRequest{From: CredentialKindPassword, Username: "alice", Password: "x", To: "cookie"}, ErrUnsupportedTargetKind},
		{"blank username", ExchangeRequest{From: CredentialKindPassword, Username: "   ", Password: "x", To: TokenKindBearer}, ErrUsernameRequired},
		{"empty password", ExchangeRequest{From: CredentialKindPassword, Username: "alice", To: TokenKindBearer}, ErrPasswordRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Exchange(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestExchangeDistinctKeysPerToken(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	first, err := engine.Exchange(context.Background(), passwordExchange("alice", "wonderland-1"))
	if err != nil {
		t.Fatalf("first Exchange failed: %v", err)
	}
	second, err := engine.Exchange(context.Background(), passwordExchange("alice", "wonderland-1"))
	if err != nil {
		t.Fatalf("second Exchange failed: %v", err)
	}

	if first.Token == second.Token {
		t.Fatal("expected distinct tokens")
	}

	kid := func(tokenStr string) string {
		header, err := base64.RawURLEncoding.DecodeString(strings.Split(tokenStr, ".")[0])
		if err != nil {
			t.Fatalf("decode header: %v", err)
		}
		var h struct {
			Kid string `json:"kid"`
		}
		if err := json.Unmarshal(header, &h); err != nil {
			t.Fatalf("unmarshal header: %v", err)
		}
		return h.Kid
	}

	if kid(first.Token) == kid(second.Token) {
		t.Fatal("expected a fresh kid per issuance")
	}
}

func TestExchangeThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableExchangeThrottle = true
	cfg.Security.MaxExchangeAttempts = 2
	cfg.Security.ExchangeCooldown = time.Minute

	engine, _ := newTestEngine(t, cfg)
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := engine.Exchange(ctx, passwordExchange("alice", "hearts")); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Third failure exceeds the budget.
	if _, err := engine.Exchange(ctx, passwordExchange("alice", "hearts")); !errors.Is(err, ErrExchangeRateLimited) {
		t.Fatalf("expected ErrExchangeRateLimited, got %v", err)
	}

	// Even the right password is refused while the window is hot.
	if _, err := engine.Exchange(ctx, passwordExchange("alice", "wonderland-1")); !errors.Is(err, ErrExchangeRateLimited) {
		t.Fatalf("expected ErrExchangeRateLimited for correct password, got %v", err)
	}
}

func TestExchangeThrottleResetOnSuccess(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableExchangeThrottle = true
	cfg.Security.MaxExchangeAttempts = 2
	cfg.Security.ExchangeCooldown = time.Minute

	engine, _ := newTestEngine(t, cfg)
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	ctx := context.Background()

	if _, err := engine.Exchange(ctx, passwordExchange("alice", "hearts")); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := engine.Exchange(ctx, passwordExchange("alice", "wonderland-1")); err != nil {
		t.Fatalf("expected success within budget: %v", err)
	}

	// Success reset the counter, so the full budget is available again.
	for i := 0; i < 2; i++ {
		if _, err := engine.Exchange(ctx, passwordExchange("alice", "hearts")); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("post-reset attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
}

func TestExchangeUpgradesStaleHash(t *testing.T) {
	cfg := testConfig()
	engine, _ := newTestEngine(t, cfg)
	mustCreateCredential(t, engine, "alice", "wonderland-1", "user-42")

	ctx := context.Background()

	before, err := engine.store.Get(ctx, credentialKey("alice"))
	if err != nil {
		t.Fatalf("read credential: %v", err)
	}

	// Rebuild the engine with a higher time cost against the same store.
	stronger := cfg
	stronger.Password.Time = 2
	upgraded, err := New().WithConfig(stronger).WithStore(engine.store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := upgraded.Exchange(ctx, passwordExchange("alice", "wonderland-1")); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	after, err := engine.store.Get(ctx, credentialKey("alice"))
	if err != nil {
		t.Fatalf("read credential: %v", err)
	}
	if before == after {
		t.Fatal("expected stored hash to be upgraded")
	}
	if !strings.Contains(after, "t=2") {
		t.Fatalf("expected upgraded parameters in record, got %s", after)
	}

	// And the upgraded hash still verifies.
	if _, err := upgraded.Exchange(ctx, passwordExchange("alice", "wonderland-1")); err != nil {
		t.Fatalf("Exchange after upgrade failed: %v", err)
	}
}
