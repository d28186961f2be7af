// ABOUTME: Handlers for registration, login, and refresh-token rotation
// ABOUTME: Issues access/refresh pairs and maintains the refresh registry

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/store"
)

// Username validation regex: alphanumeric + underscores, 3-32 characters
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,31}$`)

// credentialsRequest is the JSON request body for POST /register and POST /login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// adminRegisterRequest is the JSON request body for POST /register-admin.
// Secret must match the configured admin registration secret.
type adminRegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

// tokenPairResponse is the JSON response for register and login.
type tokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// refreshResponse is the JSON response for POST /token.
type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.registerUser(w, r, store.RoleUser)
}

func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Secret != s.cfg.Auth.AdminSecret {
		s.sendJSONError(w, http.StatusForbidden, "invalid admin secret")
		return
	}

	s.createAccount(w, r, req.Username, req.Password, store.RoleAdmin)
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request, role store.Role) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.createAccount(w, r, req.Username, req.Password, role)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request, username, password string, role store.Role) {
	if errMsg := validateCredentials(username, password); errMsg != "" {
		s.sendJSONError(w, http.StatusBadRequest, errMsg)
		return
	}

	hash, err := s.creds.Hash(password)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	u := &store.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.sendJSONError(w, http.StatusBadRequest, "username already exists")
			return
		}
		s.sendServiceError(w, err)
		return
	}

	principal := &auth.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
	access, refresh, err := s.issueTokenPair(w, principal)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenPairResponse{Token: access, RefreshToken: refresh})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.sendJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same answer as a wrong password: do not reveal which part failed
			s.sendJSONError(w, http.StatusBadRequest, "bad credentials")
			return
		}
		s.sendServiceError(w, err)
		return
	}

	if err := s.creds.Compare(u.PasswordHash, req.Password); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "bad credentials")
		return
	}

	principal := &auth.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
	access, refresh, err := s.issueTokenPair(w, principal)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.logger.Info("login", "username", u.Username)
	s.writeJSON(w, http.StatusOK, tokenPairResponse{Token: access, RefreshToken: refresh})
}

// handleRefresh rotates a refresh token: the presented token must verify
// against the refresh secret AND still be recorded in the registry. The
// old token is revoked before the replacement pair is issued, so a
// replayed token fails.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.BearerToken(r)
	if !ok {
		// Fall back to the refresh cookie set at issuance
		if c, err := r.Cookie(RefreshCookieName); err == nil && c.Value != "" {
			token, ok = c.Value, true
		}
	}
	if !ok {
		s.sendJSONError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	claims, err := s.tokens.VerifyRefresh(token)
	if err != nil {
		s.sendJSONError(w, http.StatusForbidden, "invalid refresh token")
		return
	}

	// Check and revoke under one lock: of two concurrent refreshes with
	// the same token, exactly one proceeds.
	if !s.registry.CheckAndRevoke(token) {
		s.sendJSONError(w, http.StatusForbidden, "refresh token no longer active")
		return
	}

	// Rebuild the principal from live user state so a role change takes
	// effect at the next refresh rather than persisting for 10 days.
	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := s.store.GetUser(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusForbidden, "unknown user")
			return
		}
		s.sendServiceError(w, err)
		return
	}

	principal := &auth.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
	access, refresh, err := s.issueTokenPair(w, principal)
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access, RefreshToken: refresh})
}

// issueTokenPair mints an access/refresh pair, records the refresh token
// in the registry, and mirrors it into the HTTP-only cookie.
func (s *Server) issueTokenPair(w http.ResponseWriter, p *auth.Principal) (access, refresh string, err error) {
	access, err = s.tokens.IssueAccess(p)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.IssueRefresh(p)
	if err != nil {
		return "", "", err
	}

	s.registry.Record(refresh, time.Now().Add(s.tokens.RefreshTTL()))

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refresh,
		Path:     "/token",
		MaxAge:   int(s.tokens.RefreshTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return access, refresh, nil
}

// validateCredentials checks registration input, returning an error
// message (empty if valid).
func validateCredentials(username, password string) string {
	if username == "" || password == "" {
		return "username and password are required"
	}
	if !usernameRegex.MatchString(username) {
		return "username must be 3-32 characters, letters, digits, and underscores, starting with a letter"
	}
	return ""
}
