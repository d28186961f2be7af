// ABOUTME: Package documentation for the store package
// ABOUTME: Describes the persistence layer and its error conventions

// Package store provides SQLite-backed persistence for flashdeck.
//
// It owns four entity families:
//
//   - Users: registered accounts with a bcrypt password hash and a role.
//   - Groups: named, user-owned card collections. The (name, created_by)
//     pair is unique so group creation can behave as an upsert.
//   - Cards: standalone vocabulary cards referenced from a group's
//     ordered card list (group_cards). Removing the reference keeps the
//     card row.
//   - Messages: broadcast notifications with a recipient snapshot taken
//     at send time (message_recipients).
//
// All methods take a context and return wrapped errors. Lookups that
// match nothing return ErrNotFound; duplicate usernames return
// ErrUsernameExists. Ownership is recorded as a created_by column and
// filtered with GroupFilter/CardFilter; the store does not make
// authorization decisions.
package store
