// ABOUTME: Request identity context for tracking the caller through handlers
// ABOUTME: Provides WithIdentity/FromContext; the identity name is the tenant ID

package auth

import (
	"context"
)

// Identity is the authenticated caller. Name doubles as the tenant ID, so a
// user always works inside the tenant that carries their name.
type Identity struct {
	UserID string
	Name   string
}

// TenantID returns the tenant this identity operates on.
func (i *Identity) TenantID() string {
	return i.Name
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}

// MustFromContext retrieves the Identity from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
