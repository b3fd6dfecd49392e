package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vmelnikov/picshare/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromContext returns the identity attached by the authenticate
// middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// authenticate guards protected routes. A request without a bearer token is
// rejected with 401; an expired token with 403 plus the expiry timestamp, so
// clients can run the refresh flow instead of logging out; any other invalid
// token with a plain 403.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.logger.Warn(r.Context(), "request without token", "method", r.Method, "url", r.URL.Path)
			respondJSON(w, http.StatusUnauthorized, map[string]any{"message": "Access Denied: No token provided"})
			return
		}

		id, err := s.tokens.VerifyAccess(token)
		if err != nil {
			var expired *auth.TokenExpiredError
			if errors.As(err, &expired) {
				s.logger.Warn(r.Context(), "expired token", "method", r.Method, "url", r.URL.Path, "expiredAt", expired.ExpiredAt)
				respondJSON(w, http.StatusForbidden, map[string]any{"message": "Token expired", "expiredAt": expired.ExpiredAt})
				return
			}
			s.logger.Warn(r.Context(), "invalid token", "method", r.Method, "url", r.URL.Path, "error", err.Error())
			respondJSON(w, http.StatusForbidden, map[string]any{"message": "Invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}

// requireIdentity is a convenience for handlers behind authenticate.
func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
		return auth.Identity{}, false
	}
	return id, true
}
