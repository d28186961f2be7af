// ABOUTME: Tests for user store operations
// ABOUTME: Covers create, lookup by id/username, duplicates, and ID listing

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := &User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "$2a$10$hashhashhashhashhashhash",
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.Equal(t, RoleUser, got.Role)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "alice", RoleUser)

	dup := &User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "x",
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserStore_NotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_ListUserIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	ids, err := s.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	a := createTestUser(t, s, "alice", RoleUser)
	b := createTestUser(t, s, "bob", RoleAdmin)

	ids, err = s.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}
