// ABOUTME: Package documentation for the config package
// ABOUTME: Describes configuration structure and loading behavior

// Package config loads flashdeck configuration from a YAML file.
// ${VAR_NAME} references are expanded from the environment before
// parsing, which is how the signing and registration secrets are
// usually injected. Token lifetimes are given as Go duration strings
// and fall back to the auth package defaults when omitted.
package config
