// ABOUTME: Tests for authorization decisions
// ABOUTME: Covers admin override, ownership matching, and message scoping

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flashdeck/flashdeck/internal/auth"
	"github.com/flashdeck/flashdeck/internal/store"
)

var (
	owner    = &auth.Principal{ID: "owner-1", Username: "alice", Role: store.RoleUser}
	stranger = &auth.Principal{ID: "other-1", Username: "bob", Role: store.RoleUser}
	admin    = &auth.Principal{ID: "admin-1", Username: "root", Role: store.RoleAdmin}
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		ownerID   string
		want      bool
	}{
		{name: "owner reads own resource", principal: owner, ownerID: "owner-1", want: true},
		{name: "non-owner denied", principal: stranger, ownerID: "owner-1", want: false},
		{name: "admin overrides ownership", principal: admin, ownerID: "owner-1", want: true},
		{name: "admin reads own resource", principal: admin, ownerID: "admin-1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.principal, tt.ownerID))
		})
	}
}

func TestListScope(t *testing.T) {
	s := ListScope(owner)
	assert.False(t, s.All)
	assert.Equal(t, "owner-1", s.OwnerID)

	s = ListScope(admin)
	assert.True(t, s.All)
	assert.Empty(t, s.OwnerID)
}

func TestCanReadMessage(t *testing.T) {
	recipients := []string{"owner-1", "other-1"}

	assert.True(t, CanReadMessage(owner, recipients))
	assert.True(t, CanReadMessage(stranger, recipients))

	// Admins are not implicit recipients
	assert.False(t, CanReadMessage(admin, recipients))
	assert.False(t, CanReadMessage(owner, nil))
}

func TestCanBroadcast(t *testing.T) {
	assert.True(t, CanBroadcast(owner))
	assert.True(t, CanBroadcast(admin))
	assert.False(t, CanBroadcast(nil))
}
