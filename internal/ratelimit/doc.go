// Package ratelimit is middleware for per-ip rate limiting.
//
// Simple in-memory implementation, not shared between instances or
// distributed. It protects this instance against a single address
// flooding the API (connection/goroutine exhaustion) and gives
// observability into who is being throttled; it does not protect
// against distributed attacks. Upstream filtering owns that layer,
// this is defense in depth behind it.
package ratelimit
