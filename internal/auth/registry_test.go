// ABOUTME: Tests for the refresh token registry
// ABOUTME: Covers membership, revocation, expiry pruning, and concurrent access

package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RecordAndRevoke(t *testing.T) {
	r := NewRefreshTokenRegistry()
	expiry := time.Now().Add(time.Hour)

	assert.False(t, r.IsActive("tok-1"))

	r.Record("tok-1", expiry)
	assert.True(t, r.IsActive("tok-1"))

	// Idempotent
	r.Record("tok-1", expiry)
	assert.Equal(t, 1, r.Size())

	r.Revoke("tok-1")
	assert.False(t, r.IsActive("tok-1"))

	// Revoking again is a no-op
	r.Revoke("tok-1")
}

func TestRegistry_ExpiredNotActive(t *testing.T) {
	r := NewRefreshTokenRegistry()

	r.Record("stale", time.Now().Add(-time.Minute))
	assert.False(t, r.IsActive("stale"))
}

func TestRegistry_PruneOnRecord(t *testing.T) {
	r := NewRefreshTokenRegistry()

	for i := 0; i < 100; i++ {
		r.Record(fmt.Sprintf("stale-%d", i), time.Now().Add(-time.Minute))
	}

	// Each Record prunes what has already expired, so the set stays small
	r.Record("fresh", time.Now().Add(time.Hour))
	assert.Equal(t, 1, r.Size())
	assert.True(t, r.IsActive("fresh"))
}

func TestRegistry_CheckAndRevoke(t *testing.T) {
	r := NewRefreshTokenRegistry()

	assert.False(t, r.CheckAndRevoke("unknown"))

	r.Record("tok-1", time.Now().Add(time.Hour))
	assert.True(t, r.CheckAndRevoke("tok-1"))
	assert.False(t, r.CheckAndRevoke("tok-1"), "second spend of the same token")
	assert.False(t, r.IsActive("tok-1"))

	r.Record("stale", time.Now().Add(-time.Minute))
	assert.False(t, r.CheckAndRevoke("stale"), "expired token is not spendable")
}

func TestRegistry_CheckAndRevokeSingleWinner(t *testing.T) {
	r := NewRefreshTokenRegistry()
	r.Record("tok-1", time.Now().Add(time.Hour))

	const callers = 50
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.CheckAndRevoke("tok-1") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1, "exactly one concurrent caller may spend a token")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRefreshTokenRegistry()
	expiry := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", n)
			r.Record(token, expiry)
			r.IsActive(token)
			if n%2 == 0 {
				r.Revoke(token)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, r.Size())
	assert.True(t, r.IsActive("tok-1"))
	assert.False(t, r.IsActive("tok-2"))
}
