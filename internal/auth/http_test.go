// ABOUTME: Tests for the bearer-token HTTP middleware
// ABOUTME: Covers missing headers, bad tokens, expiry, and principal propagation

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck/internal/store"
)

func TestMiddleware_ValidToken(t *testing.T) {
	svc := testTokenService()
	token, err := svc.IssueAccess(testPrincipal())
	require.NoError(t, err)

	var got *Principal
	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-123", got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, store.RoleUser, got.Role)
}

func TestMiddleware_MissingCredentials(t *testing.T) {
	svc := testTokenService()
	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cards", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	svc := testTokenService()
	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	// A refresh token on an access-gated route must be forbidden
	refresh, err := svc.IssueRefresh(testPrincipal())
	require.NoError(t, err)

	// Expired access token
	expiredSvc := NewTokenService([]byte("access-secret-for-tests"), []byte("refresh-secret-for-tests"), -time.Minute, -time.Minute)
	expired, err := expiredSvc.IssueAccess(testPrincipal())
	require.NoError(t, err)

	for _, token := range []string{"garbage", refresh, expired} {
		req := httptest.NewRequest(http.MethodGet, "/cards", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token")
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	_, ok := BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer abc123")
	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}
