// ABOUTME: Tests for the bcrypt credential verifier
// ABOUTME: Covers hash/compare roundtrips and mismatch rejection

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialVerifier_Roundtrip(t *testing.T) {
	v := NewCredentialVerifier()

	hash, err := v.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, v.Compare(hash, "correct horse battery staple"))
	assert.ErrorIs(t, v.Compare(hash, "wrong password"), ErrBadCredentials)
}

func TestCredentialVerifier_GarbageHash(t *testing.T) {
	v := NewCredentialVerifier()

	assert.ErrorIs(t, v.Compare("not-a-bcrypt-hash", "anything"), ErrBadCredentials)
}

func TestCredentialVerifier_DistinctHashes(t *testing.T) {
	v := NewCredentialVerifier()

	h1, err := v.Hash("pw1")
	require.NoError(t, err)
	h2, err := v.Hash("pw1")
	require.NoError(t, err)

	// bcrypt salts per call
	assert.NotEqual(t, h1, h2)
}
