// ABOUTME: Package documentation for the deck package
// ABOUTME: Describes group/card operations and their ownership semantics

// Package deck implements group and card operations on top of the store,
// with authorization applied before every persistence call. Group
// creation is an upsert keyed on (name, owner); card creation resolves
// the target group first and appends the new card to its ordered list.
package deck
