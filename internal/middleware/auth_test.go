package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tourism-api/internal/auth"
	"tourism-api/internal/middleware"
)

func newProtectedHandler(t *testing.T, m *auth.Manager) (http.Handler, *uuid.UUID) {
	t.Helper()
	var seen uuid.UUID

	mw := middleware.NewAuthMiddleware(m, zap.NewNop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.UserIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	return mw.JWTAuth(next), &seen
}

func TestJWTAuth_ValidAccessToken(t *testing.T) {
	m := auth.NewManager("secret", "tourism-api", time.Hour, 24*time.Hour)
	userID := uuid.New()

	pair, err := m.Issue(userID.String())
	require.NoError(t, err)

	handler, seen := newProtectedHandler(t, m)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *seen)
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	m := auth.NewManager("secret", "tourism-api", time.Hour, 24*time.Hour)

	pair, err := m.Issue(uuid.NewString())
	require.NoError(t, err)

	handler, _ := newProtectedHandler(t, m)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not an access token")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	m := auth.NewManager("secret", "tourism-api", time.Hour, 24*time.Hour)
	handler, _ := newProtectedHandler(t, m)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	m := auth.NewManager("secret", "tourism-api", time.Hour, 24*time.Hour)
	handler, _ := newProtectedHandler(t, m)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abcdef")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	m := auth.NewManager("secret", "tourism-api", time.Hour, 24*time.Hour)
	handler, _ := newProtectedHandler(t, m)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
