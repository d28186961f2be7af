// ABOUTME: JWT issuance and verification for access and refresh tokens
// ABOUTME: Uses HS256 with distinct secrets per token kind

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flashdeck/flashdeck/internal/store"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = 10 * time.Minute
	DefaultRefreshTTL = 10 * 24 * time.Hour
)

// TokenService issues and verifies the two token kinds. Access and
// refresh tokens are signed with distinct secrets so a leaked token of
// one kind cannot be replayed as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a token service with the given secrets and
// lifetimes. Zero lifetimes fall back to the defaults.
func NewTokenService(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL == 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs a short-lived access token carrying the principal's claims.
func (s *TokenService) IssueAccess(p *Principal) (string, error) {
	return sign(p, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a long-lived refresh token carrying the same claim shape.
func (s *TokenService) IssueRefresh(p *Principal) (string, error) {
	return sign(p, s.refreshSecret, s.refreshTTL)
}

// VerifyAccess validates an access token and returns its principal.
func (s *TokenService) VerifyAccess(tokenString string) (*Principal, error) {
	return verify(tokenString, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its principal.
func (s *TokenService) VerifyRefresh(tokenString string) (*Principal, error) {
	return verify(tokenString, s.refreshSecret)
}

func sign(p *Principal, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      p.ID,
		"username": p.Username,
		"role":     string(p.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func verify(tokenString string, secret []byte) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		// Check if it's specifically an expiration error
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("%w: username", ErrMissingClaim)
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: role", ErrMissingClaim)
	}
	role := store.Role(roleStr)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, roleStr)
	}

	return &Principal{
		ID:       sub,
		Username: username,
		Role:     role,
	}, nil
}
