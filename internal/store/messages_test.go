// ABOUTME: Tests for broadcast message store operations
// ABOUTME: Covers recipient snapshot scoping and ordering

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageStore_RecipientScoping(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", RoleUser)
	bob := createTestUser(t, s, "bob", RoleUser)

	m := &Message{
		ID:         uuid.NewString(),
		Text:       "maintenance tonight",
		CreatedBy:  alice.ID,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Recipients: []string{alice.ID, bob.ID},
	}
	require.NoError(t, s.CreateMessage(ctx, m))

	// Carol registers after the broadcast: not in the snapshot
	carol := createTestUser(t, s, "carol", RoleUser)

	forAlice, err := s.ListMessagesForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, "maintenance tonight", forAlice[0].Text)
	assert.Nil(t, forAlice[0].Recipients)

	forBob, err := s.ListMessagesForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, forBob, 1)

	forCarol, err := s.ListMessagesForUser(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, forCarol)
}

func TestMessageStore_Ordering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice", RoleUser)

	base := time.Now().UTC().Truncate(time.Second)
	for i, text := range []string{"first", "second", "third"} {
		m := &Message{
			ID:         uuid.NewString(),
			Text:       text,
			CreatedBy:  alice.ID,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
			Recipients: []string{alice.ID},
		}
		require.NoError(t, s.CreateMessage(ctx, m))
	}

	got, err := s.ListMessagesForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "third", got[2].Text)
}
