package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tmukherjee/storefront/internal/access"
	"github.com/tmukherjee/storefront/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the authenticated identity claim.
const identityKey contextKey = "identity"

// GetIdentity extracts the authenticated identity from the context.
// Returns nil if the request carried no valid token.
func GetIdentity(ctx context.Context) *access.Identity {
	identity, _ := ctx.Value(identityKey).(*access.Identity)
	return identity
}

// WithIdentity returns a context carrying the given identity claim.
// Exposed for handler tests.
func WithIdentity(ctx context.Context, identity *access.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Authenticate returns middleware that validates a Bearer JWT when present
// and attaches the resulting identity claim to the request context. Requests
// without a token pass through unauthenticated; the access gate decides per
// operation whether that is acceptable.
func Authenticate(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				// An invalid token is treated the same as no token;
				// gated operations will reject downstream.
				next.ServeHTTP(w, r)
				return
			}

			identity := &access.Identity{
				UserID:   claims.UserID,
				Username: claims.Username,
				IsAdmin:  claims.IsAdmin,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
