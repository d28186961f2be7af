// ABOUTME: Tests for the deck service against a real SQLite store
// ABOUTME: Covers upsert identity, ownership denial, admin override, card flows

package deck

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/store"
)

func setupService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return NewService(s), s
}

func registerPrincipal(t *testing.T, s *store.SQLiteStore, username string, role store.Role) *auth.Principal {
	t.Helper()

	u := &store.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))

	return &auth.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}

func TestService_GroupUpsert(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)

	g1, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)

	// Same (name, owner): same identity, no duplicate
	g2, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)
	assert.Equal(t, g1.ID, g2.ID)

	// Same name for another owner: a new group
	g3, err := svc.GetOrCreateGroup(ctx, bob, "Spanish")
	require.NoError(t, err)
	assert.NotEqual(t, g1.ID, g3.ID)

	own, err := svc.ListGroups(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestService_GroupOwnershipHidden(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)
	admin := registerPrincipal(t, s, "root", store.RoleAdmin)

	g, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)

	// Non-owner gets the same error as for an absent group
	_, err = svc.GetGroup(ctx, bob, g.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.GetGroup(ctx, bob, "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Admin override
	got, err := svc.GetGroup(ctx, admin, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
}

func TestService_ListAllGroups(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)
	admin := registerPrincipal(t, s, "root", store.RoleAdmin)

	_, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)
	_, err = svc.GetOrCreateGroup(ctx, bob, "German")
	require.NoError(t, err)

	all, err := svc.ListAllGroups(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// For a regular user, the admin-visible listing degrades to own groups
	own, err := svc.ListAllGroups(ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Spanish", own[0].Name)
}

func TestService_DeleteGroup(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)

	g, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)

	_, err = svc.DeleteGroup(ctx, bob, g.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := svc.DeleteGroup(ctx, alice, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, deleted.ID)

	_, err = svc.GetGroup(ctx, alice, g.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_CreateCard(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)

	g, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)

	c, err := svc.CreateCard(ctx, alice, "hola", "hello", "Spanish", g.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, c.CreatedBy)

	got, err := svc.GetGroup(ctx, alice, g.ID)
	require.NoError(t, err)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "hola", got.Cards[0].Word)
}

func TestService_CreateCard_GroupNotFound(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)

	_, err := svc.CreateCard(ctx, alice, "hola", "hello", "Nope", "")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	// A user cannot target another user's group by name
	g, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)
	_, err = svc.CreateCard(ctx, bob, "hola", "hello", "Spanish", g.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestService_CreateCard_AdminByGroupID(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	admin := registerPrincipal(t, s, "root", store.RoleAdmin)

	g, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)

	// Admins resolve the target group by ID, regardless of owner
	c, err := svc.CreateCard(ctx, admin, "gato", "cat", "", g.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, c.CreatedBy)

	got, err := svc.GetGroup(ctx, admin, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Cards, 1)
}

func TestService_CardOwnership(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)
	admin := registerPrincipal(t, s, "root", store.RoleAdmin)

	_, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)
	c, err := svc.CreateCard(ctx, alice, "hola", "hello", "Spanish", "")
	require.NoError(t, err)

	// Non-owner: denied as not found
	_, err = svc.GetCard(ctx, bob, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	word := "hacked"
	_, err = svc.UpdateCard(ctx, bob, c.ID, store.CardUpdate{Word: &word})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Admin: full access
	got, err := svc.GetCard(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hola", got.Word)

	word = "buenas"
	updated, err := svc.UpdateCard(ctx, admin, c.ID, store.CardUpdate{Word: &word})
	require.NoError(t, err)
	assert.Equal(t, "buenas", updated.Word)
}

func TestService_ListCardsScope(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()
	alice := registerPrincipal(t, s, "alice", store.RoleUser)
	bob := registerPrincipal(t, s, "bob", store.RoleUser)
	admin := registerPrincipal(t, s, "root", store.RoleAdmin)

	_, err := svc.GetOrCreateGroup(ctx, alice, "Spanish")
	require.NoError(t, err)
	_, err = svc.GetOrCreateGroup(ctx, bob, "German")
	require.NoError(t, err)

	_, err = svc.CreateCard(ctx, alice, "hola", "hello", "Spanish", "")
	require.NoError(t, err)
	_, err = svc.CreateCard(ctx, bob, "hallo", "hello", "German", "")
	require.NoError(t, err)

	own, err := svc.ListCards(ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "hola", own[0].Word)

	all, err := svc.ListCards(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
