// ABOUTME: Authorization decisions for ownership-scoped resources
// ABOUTME: Pure functions of (principal, resource); no cross-request state

package policy

import (
	"github.com/flashdeck/flashdeck/internal/auth"
)

// Scope describes which resources a list operation may return.
type Scope struct {
	// OwnerID restricts results to one owner when All is false.
	OwnerID string
	// All grants visibility over every owner's resources.
	All bool
}

// CanAccess decides whether the principal may read or modify a resource
// owned by ownerID. Admins may access any resource; everyone else only
// their own.
func CanAccess(p *auth.Principal, ownerID string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.ID == ownerID
}

// ListScope returns the visibility scope for list operations: admins see
// everything, regular users only what they created.
func ListScope(p *auth.Principal) Scope {
	if p.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{OwnerID: p.ID}
}

// CanReadMessage decides whether the principal may read a broadcast
// message, which requires membership in its recipient snapshot. Admins
// get no special treatment here: a message is addressed to whoever
// existed at send time.
func CanReadMessage(p *auth.Principal, recipientIDs []string) bool {
	for _, id := range recipientIDs {
		if id == p.ID {
			return true
		}
	}
	return false
}

// CanBroadcast decides whether the principal may send a broadcast
// message. Any authenticated principal may.
func CanBroadcast(p *auth.Principal) bool {
	return p != nil
}
