// ABOUTME: Package documentation for the api package
// ABOUTME: Describes the HTTP surface, auth flows, and error mapping

// Package api exposes flashdeck over HTTP. It owns the route table, the
// register/login/refresh flows, and the mapping from service errors to
// status codes. Resource routes sit behind bearer authentication; the
// refresh token travels either as a bearer credential or in an HTTP-only
// cookie scoped to the token path.
package api
