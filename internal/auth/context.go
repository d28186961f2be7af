// ABOUTME: Principal type and context plumbing for request identity
// ABOUTME: Provides WithPrincipal/FromContext for propagating identity via context

package auth

import (
	"context"

	"github.com/flashdeck/flashdeck/internal/store"
)

// Principal is the authenticated identity attached to a request after
// token verification. It is a transient view of a User at token-issuance
// time: the role it carries is not re-checked against storage until the
// next login or refresh.
type Principal struct {
	ID       string
	Username string
	Role     store.Role
}

// IsAdmin returns true if the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == store.RoleAdmin
}

// principalKey is the key type for storing a Principal in context.Context.
type principalKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the Principal from the context, returning nil if not present.
func FromContext(ctx context.Context) *Principal {
	val := ctx.Value(principalKey{})
	if val == nil {
		return nil
	}
	p, ok := val.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustFromContext retrieves the Principal from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
