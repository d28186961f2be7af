// ABOUTME: Package documentation for the inbox package
// ABOUTME: Describes broadcast semantics and recipient snapshots

// Package inbox implements broadcast messages. A broadcast captures the
// set of registered users at send time; reads return only the messages
// addressed to the caller and never expose the recipient set.
package inbox
