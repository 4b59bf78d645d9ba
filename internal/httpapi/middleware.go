package httpapi

import (
	"context"
	"net/http"
	"strings"

	"example.com/scoreboard/internal/auth"
)

// Verifier checks operator tokens.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

type ctxKey string

const operatorKey ctxKey = "operator"

func AuthMiddleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			claims, err := v.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), operatorKey, claims.Operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func OperatorFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(operatorKey)
	s, ok := v.(string)
	return s, ok
}
