// Package identity models the best-effort caller identity decoded from
// a bearer credential. Claims are decoded without signature or expiry
// verification: the upstream gateway owns validation, this service only
// reads who the gateway already let through.
package identity

import (
	"context"
	"time"
)

// Identity is the decoded caller. All fields are optional; a request
// with no credential carries the zero Identity.
type Identity struct {
	Subject     string
	Username    string
	Email       string
	Roles       []string
	Permissions []string
	TokenType   string
	IssuedAt    *int64
	ExpiresAt   *int64

	// Extra holds claims the mapper does not recognize, so callers can
	// reach provider-specific data without reflection anywhere else.
	Extra map[string]any
}

// IsAuthenticated reports whether a subject was decoded.
func (id Identity) IsAuthenticated() bool { return id.Subject != "" }

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (id Identity) HasPermission(perm string) bool {
	for _, p := range id.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

func (id Identity) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if id.HasRole(r) {
			return true
		}
	}
	return false
}

// Expired reports whether the exp claim is present and in the past.
// Expired identities still count as decoded; expiry is logged, never
// enforced here. A literal exp of 0 (the epoch) is present and expired.
func (id Identity) Expired(now time.Time) bool {
	return id.ExpiresAt != nil && time.Unix(*id.ExpiresAt, 0).Before(now)
}

type ctxKey struct{}

// NewContext returns a context carrying the decoded identity.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request's identity, or the zero Identity if
// the credential middleware did not attach one.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}
