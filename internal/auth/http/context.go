// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"
	"sync"

	authDomain "github.com/allisson/forum/internal/auth/domain"
)

// identityCellKey is a context key type for the per-request identity cell.
type identityCellKey struct{}

// identityCell holds the request's resolved identity behind a mutex. The cell
// is mutable so a handler can drop or swap the identity mid-request (logout,
// re-authentication) without rebuilding the context chain; values stored under
// other keys, such as the transaction manager's, are never disturbed.
type identityCell struct {
	mu       sync.Mutex
	identity authDomain.Identity
}

// WithIdentityCell installs an empty identity cell in the context.
// Called once per request by the authentication middleware before any
// identity is resolved.
func WithIdentityCell(ctx context.Context) context.Context {
	return context.WithValue(ctx, identityCellKey{}, &identityCell{})
}

// GetIdentity retrieves the current identity from the context.
// Returns (identity, true) when a subject is bound, or (nil, false) for an
// anonymous request or a context without a cell.
func GetIdentity(ctx context.Context) (authDomain.Identity, bool) {
	cell, ok := ctx.Value(identityCellKey{}).(*identityCell)
	if !ok {
		return nil, false
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.identity == nil {
		return nil, false
	}
	return cell.identity, true
}

// SetIdentity binds an identity to the request's cell.
// A nil cell (no middleware ran) is a no-op.
func SetIdentity(ctx context.Context, identity authDomain.Identity) {
	cell, ok := ctx.Value(identityCellKey{}).(*identityCell)
	if !ok {
		return
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()
	cell.identity = identity
}

// ClearIdentity drops the identity from the request's cell, returning the
// request to anonymous. Used by logout while the request is still in flight.
func ClearIdentity(ctx context.Context) {
	cell, ok := ctx.Value(identityCellKey{}).(*identityCell)
	if !ok {
		return
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()
	cell.identity = nil
}
