// ABOUTME: Store data types and errors for flashdeck persistence
// ABOUTME: Defines User, Group, Card, Message structs shared across packages

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when trying to create a user with an existing username.
var ErrUsernameExists = errors.New("username already exists")

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account. PasswordHash is a bcrypt hash and
// never leaves the store layer.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Group represents a named collection of cards owned by a single user.
// The (name, created_by) pair is unique per owner.
type Group struct {
	ID        string
	Name      string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Cards holds the group's cards in append order. Populated by
	// GetGroup and ListGroups; nil on bare lookups.
	Cards []Card
}

// Card represents a single vocabulary card. A card is created standalone
// and then referenced from exactly one group's card list; removing that
// reference does not delete the card.
type Card struct {
	ID        string
	Word      string
	Translate string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a broadcast notification. Recipients is the snapshot of user
// IDs taken at send time; it scopes reads and is never serialized to
// clients.
type Message struct {
	ID         string
	Text       string
	CreatedBy  string
	CreatedAt  time.Time
	Recipients []string
}

// GroupFilter narrows ListGroups. A nil CreatedBy matches all groups.
type GroupFilter struct {
	CreatedBy *string
}

// CardFilter narrows ListCards. A nil CreatedBy matches all cards.
type CardFilter struct {
	CreatedBy *string
}
