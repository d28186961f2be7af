// ABOUTME: Shared test helper creating a temp-file SQLite store
// ABOUTME: Provides setupTestStore and a seeded user fixture

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a store backed by a temp file, cleaned up with the test.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// createTestUser inserts a user with the given username and role.
func createTestUser(t *testing.T, s *SQLiteStore, username string, role Role) *User {
	t.Helper()

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}
