package api

import (
	"context"
	"net/http"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
)

type contextKey string

const userContextKey contextKey = "api.user"

// UserSource resolves API keys to users.
type UserSource interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// APIKeyAuth authenticates requests via the X-API-Key header and threads
// the resolved user through the request context. Every protected handler
// reads the caller from there; there is no ambient default user.
func APIKeyAuth(users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing API key")
				return
			}
			u, err := users.FindByAPIKey(r.Context(), key)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated caller. It panics if the
// middleware did not run; protected routes always pass through it.
func UserFromContext(ctx context.Context) *domain.User {
	return ctx.Value(userContextKey).(*domain.User)
}
