package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
	jwtinfra "github.com/GioMjds/Printify-Mobile/internal/infrastructure/jwt"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
	UserKey   contextKey = "user"
)

// AccessTokenCookie is the cookie the login endpoint sets for browser clients.
const AccessTokenCookie = "access_token"

type userResolver interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Auth returns middleware that validates the request's JWT and injects the
// claims and the resolved account into context. The Authorization header
// takes precedence; the access_token cookie is the fallback for browser
// clients that rely on httpOnly cookies.
func Auth(provider *jwtinfra.Provider, users userResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				if c, err := r.Cookie(AccessTokenCookie); err == nil {
					tokenStr = c.Value
				}
			}
			if tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			u, err := users.Get(r.Context(), claims.Subject)
			if err != nil {
				// A valid token for a deleted account is still unauthorized.
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// UserFromContext extracts the authenticated account from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}
