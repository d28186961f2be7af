// ABOUTME: Tests for card store operations
// ABOUTME: Covers partial updates, owner filters, and delete semantics

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardStore_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", RoleUser)

	c := createTestCard(t, s, "hola", alice.ID)

	got, err := s.GetCard(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hola", got.Word)
	assert.Equal(t, "hola-translated", got.Translate)
	assert.Equal(t, alice.ID, got.CreatedBy)
}

func TestCardStore_UpdatePartial(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", RoleUser)
	c := createTestCard(t, s, "hola", alice.ID)

	word := "buenos dias"
	got, err := s.UpdateCard(ctx, c.ID, CardUpdate{Word: &word})
	require.NoError(t, err)
	assert.Equal(t, "buenos dias", got.Word)
	// Untouched field keeps its value
	assert.Equal(t, "hola-translated", got.Translate)
	assert.False(t, got.UpdatedAt.Before(c.UpdatedAt))

	translate := "good morning"
	got, err = s.UpdateCard(ctx, c.ID, CardUpdate{Translate: &translate})
	require.NoError(t, err)
	assert.Equal(t, "buenos dias", got.Word)
	assert.Equal(t, "good morning", got.Translate)
}

func TestCardStore_UpdateMissing(t *testing.T) {
	s := setupTestStore(t)

	word := "x"
	_, err := s.UpdateCard(context.Background(), "missing", CardUpdate{Word: &word})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCardStore_ListFiltered(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", RoleUser)
	bob := createTestUser(t, s, "bob", RoleUser)

	createTestCard(t, s, "hola", alice.ID)
	createTestCard(t, s, "adios", alice.ID)
	createTestCard(t, s, "hallo", bob.ID)

	all, err := s.ListCards(ctx, CardFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := s.ListCards(ctx, CardFilter{CreatedBy: &bob.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "hallo", own[0].Word)
}

func TestCardStore_Delete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", RoleUser)
	g := createTestGroup(t, s, "Spanish", alice.ID)
	c := createTestCard(t, s, "hola", alice.ID)
	require.NoError(t, s.AppendCardToGroup(ctx, g.ID, c.ID))

	require.NoError(t, s.DeleteCard(ctx, c.ID))

	_, err := s.GetCard(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Cards)

	assert.ErrorIs(t, s.DeleteCard(ctx, c.ID), ErrNotFound)
}
