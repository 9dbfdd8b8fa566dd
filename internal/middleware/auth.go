package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tourism-api/internal/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwt  *auth.Manager
	logr *zap.Logger
}

type contextKey string

const ContextUserIDKey contextKey = "userID"

// NewAuthMiddleware creates a reusable JWT auth middleware instance
func NewAuthMiddleware(jwt *auth.Manager, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, logr: logr}
}

// UserIDFromContext returns the authenticated caller's id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(ContextUserIDKey).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// JWTAuth validates the bearer token and attaches the user id to the
// request context. Only access tokens pass; refresh tokens are rejected.
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			unauthorized(w, "invalid token format")
			return
		}

		claims, err := m.jwt.Verify(tokenString)
		if err != nil {
			m.logr.Warn("token verify failed", zap.Error(err))
			unauthorized(w, "invalid or expired token")
			return
		}

		if claims["typ"] != string(auth.AccessToken) {
			unauthorized(w, "not an access token")
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			unauthorized(w, "invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
