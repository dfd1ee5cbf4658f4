package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reviewrelay/backend/internal/domain/providers"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// OwnerFromContext returns the authenticated owner id, if any.
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	return ownerID, ok
}

// WithOwner returns a context carrying the owner id. Exported for handler
// tests.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// AuthMiddleware verifies the bearer token with the external identity
// provider and stores the resulting owner id in the request context. The
// token itself never travels further into the application.
func AuthMiddleware(verifier providers.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			ownerID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if apperrors.IsType(err, apperrors.ErrorTypeUnavailable) {
					respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "identity provider unavailable"})
					return
				}
				unauthorized(w, "token rejected")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), ownerID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnauthorized, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
