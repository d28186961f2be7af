// ABOUTME: HTTP middleware enforcing bearer access-token authentication
// ABOUTME: Extracts the token, verifies it, and attaches the Principal to context

package auth

import (
	"net/http"
	"strings"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// BearerToken extracts the bearer token from a request, returning false
// if the Authorization header is absent or malformed.
func BearerToken(r *http.Request) (string, bool) {
	token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
	return token, errMsg == ""
}

// Middleware creates an HTTP middleware that authenticates every request
// with an access token. Missing credentials are rejected with 401;
// present-but-invalid credentials with 403. On success the Principal is
// attached to the request context for downstream handlers.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				writeAuthError(w, http.StatusUnauthorized, errMsg)
				return
			}

			principal, err := tokens.VerifyAccess(token)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
