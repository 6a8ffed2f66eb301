package httpx

import (
	"context"
	"net/http"
	"strings"

	"vinylvault/internal/platform/crypto"
)

// BlacklistRepository reports whether a token id was revoked on logout.
type BlacklistRepository interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthMiddleware admits requests carrying a valid, unrevoked access token and
// stores its subject and role on the request context. A nil blacklist skips
// the revocation check.
func AuthMiddleware(secret string, blacklist BlacklistRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				JSONErrorWithRequest(r, w, http.StatusUnauthorized, CodeUnauthorized, "Missing bearer token", nil)
				return
			}
			claims, err := crypto.ParseToken(secret, raw)
			if err != nil {
				JSONErrorWithRequest(r, w, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token", nil)
				return
			}
			if blacklist != nil {
				// fail closed when the revocation store is unreachable
				revoked, err := blacklist.IsBlacklisted(r.Context(), claims.ID)
				if err != nil || revoked {
					JSONErrorWithRequest(r, w, http.StatusUnauthorized, CodeUnauthorized, "Token has been revoked", nil)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), claims.Sub, claims.Role)))
		})
	}
}
