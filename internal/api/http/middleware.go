package http

import (
	"context"
	"net/http"
	"strings"

	"passerelle-backend/internal/auth"
	"passerelle-backend/internal/domain"
)

type contextKey string

const callerKey contextKey = "caller"

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}

// RequireAuth resolves the Bearer token into a Caller and injects it into the
// request context. Requests without a valid token are refused.
func RequireAuth(authenticator auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			caller, err := authenticator.VerifyToken(r.Context(), token)
			if err != nil {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, *caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerOrFail(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
	}
	return caller, ok
}
