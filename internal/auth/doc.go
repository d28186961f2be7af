// ABOUTME: Package documentation for the auth package
// ABOUTME: Describes the dual-token credential lifecycle

// Package auth implements the credential lifecycle for flashdeck.
//
// It covers four concerns:
//
//   - TokenService: HS256-signed access tokens (short-lived) and refresh
//     tokens (long-lived), each signed with its own secret so one kind
//     cannot stand in for the other. Claims carry {sub, username, role}.
//   - RefreshTokenRegistry: the set of refresh tokens currently honored
//     by the refresh flow. Rotation revokes the presented token, so a
//     rotated-out token replays as forbidden.
//   - CredentialVerifier: bcrypt password hashing and comparison.
//   - Middleware: the HTTP authentication gate. A missing or malformed
//     Authorization header yields 401; a present but unverifiable token
//     yields 403; success attaches a Principal to the request context.
//
// The Principal's role is baked in at issuance and not re-validated
// against live user state until the next login or refresh. A role change
// therefore takes up to one access-token lifetime to propagate; this is
// an accepted trade-off, not an oversight.
package auth
