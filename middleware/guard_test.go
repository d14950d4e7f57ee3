package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	keymint "github.com/keymint/keymint"
	"github.com/keymint/keymint/store"
)

func newGuardedServer(t *testing.T) (*keymint.Engine, http.Handler) {
	t.Helper()

	engine, err := keymint.New().WithStore(store.NewMemory()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("expected identity in request context")
		}
		_, _ = w.Write([]byte(identity))
	}))

	return engine, handler
}

func issueToken(t *testing.T, engine *keymint.Engine) string {
	t.Helper()

	ctx := context.Background()
	if _, err := engine.CreateCredential(ctx, keymint.CreateCredentialRequest{
		Username: "alice",
		Password: "wonderland-1",
		Identity: "user-42",
	}); err != nil {
		t.Fatalf("CreateCredential failed: %v", err)
	}

	res, err := engine.Exchange(ctx, keymint.ExchangeRequest{
		From:     keymint.CredentialKindPassword,
		Username: "alice",
		Password: "wonderland-1",
		To:       keymint.TokenKindBearer,
	})
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	return res.Token
}

func TestGuardAcceptsValidBearer(t *testing.T) {
	engine, handler := newGuardedServer(t)
	token := issueToken(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user-42" {
		t.Fatalf("expected identity user-42, got %q", rec.Body.String())
	}
}

func TestGuardRejections(t *testing.T) {
	engine, handler := newGuardedServer(t)
	token := issueToken(t, engine)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"lowercase scheme", "bearer " + token},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestGuardNilEngine(t *testing.T) {
	handler := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
