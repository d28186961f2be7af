// ABOUTME: Package documentation for the policy package
// ABOUTME: Describes the ownership and admin-override rules

// Package policy is the single decision point for resource
// authorization. Every decision is a pure function of the principal and
// the target resource's ownership, evaluated per request.
//
// Two rules cover all owned resources: admins may access anything by
// identity lookup, and regular users only resources they created.
// Callers surface a denied single-resource access as the same "not
// found" result used for absent resources, so non-owners cannot probe
// for resource existence.
package policy
