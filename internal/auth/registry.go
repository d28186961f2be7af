// ABOUTME: In-process registry of active refresh tokens
// ABOUTME: Mutex-guarded set with opportunistic expiry pruning

package auth

import (
	"sync"
	"time"
)

// RefreshTokenRegistry tracks currently-valid refresh tokens so the
// refresh flow can reject tokens that were never issued or were rotated
// out. Safe for concurrent use. Expired entries are pruned on Record, so
// the set is bounded by the number of refresh tokens issued within one
// refresh lifetime.
type RefreshTokenRegistry struct {
	mu     sync.Mutex
	active map[string]time.Time // token -> expiry
}

// NewRefreshTokenRegistry creates an empty registry.
func NewRefreshTokenRegistry() *RefreshTokenRegistry {
	return &RefreshTokenRegistry{
		active: make(map[string]time.Time),
	}
}

// Record inserts a token into the active set. Idempotent.
func (r *RefreshTokenRegistry) Record(token string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(time.Now())
	r.active[token] = expiresAt
}

// IsActive reports whether the token is recorded and unexpired.
func (r *RefreshTokenRegistry) IsActive(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiresAt, ok := r.active[token]
	if !ok {
		return false
	}
	return time.Now().Before(expiresAt)
}

// CheckAndRevoke atomically removes the token from the active set,
// reporting whether it was recorded and unexpired at the time. Exactly
// one of any set of concurrent callers presenting the same token
// observes true, so a rotated token cannot be spent twice.
func (r *RefreshTokenRegistry) CheckAndRevoke(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiresAt, ok := r.active[token]
	if !ok {
		return false
	}
	delete(r.active, token)
	return time.Now().Before(expiresAt)
}

// Revoke removes a token from the active set. Revoking an unknown token
// is a no-op.
func (r *RefreshTokenRegistry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, token)
}

// Size returns the number of recorded tokens, expired entries included.
func (r *RefreshTokenRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.active)
}

// pruneLocked drops expired entries. Caller holds the lock.
func (r *RefreshTokenRegistry) pruneLocked(now time.Time) {
	for token, expiresAt := range r.active {
		if !now.Before(expiresAt) {
			delete(r.active, token)
		}
	}
}
