package middleware

import (
	"context"
	"net/http"
	"strings"

	keymint "github.com/keymint/keymint"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity injected by [Guard] after a
// successful verification.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(string)
	return identity, ok
}

// Guard rejects requests whose Authorization header does not carry a bearer
// token the engine accepts. Every rejection is 401 with no detail; the
// failure class is observable through the engine's metrics and audit trail,
// not the response.
func Guard(engine *keymint.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.VerifyBearer(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
