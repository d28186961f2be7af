// ABOUTME: Password hashing and verification wrapper around bcrypt
// ABOUTME: Treated as an opaque one-way credential primitive by callers

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when a password does not match its hash.
var ErrBadCredentials = errors.New("bad credentials")

// CredentialVerifier hashes and verifies passwords.
type CredentialVerifier struct {
	cost int
}

// NewCredentialVerifier creates a verifier using the default bcrypt cost.
func NewCredentialVerifier() *CredentialVerifier {
	return &CredentialVerifier{cost: bcrypt.DefaultCost}
}

// Hash returns a bcrypt hash of the password.
func (v *CredentialVerifier) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Compare checks a password against a stored hash. Returns
// ErrBadCredentials on mismatch.
func (v *CredentialVerifier) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}
