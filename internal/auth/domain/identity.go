// Package domain defines the identity and authorization domain models.
//
// An identity is resolved transiently per request from a decoded access token;
// it is never cached beyond the request and is discarded when the request ends.
package domain

import (
	"context"

	"github.com/allisson/forum/internal/auth/permission"
)

// AdminRoleID is the role whose members hold elevated rights.
// Administrators short-circuit every capability check to true.
const AdminRoleID int64 = 1

// Identity is the capability-set view of an authenticated subject.
// Both the request middleware and the websocket handshake depend on this
// interface, never on transport-specific details.
type Identity interface {
	// SubjectID returns the primary key the credential asserts control over.
	SubjectID() int64

	// IsAdmin reports whether the subject holds elevated rights.
	IsAdmin() bool

	// HasPermission reports whether the subject holds the named capability.
	// Admins are always allowed. For non-admins the subject's role grants are
	// resolved through storage on every call; callers needing performance put
	// a cache in front of the resolver, not inside the guard.
	HasPermission(ctx context.Context, descriptor permission.Descriptor) (bool, error)
}

// PermissionResolver is the storage side of the capability predicate.
type PermissionResolver interface {
	// ResolveRolePermissions returns every capability granted to a role.
	ResolveRolePermissions(ctx context.Context, roleID int64) ([]permission.Descriptor, error)
}
