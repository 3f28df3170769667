package domain

import (
	"time"

	"github.com/allisson/forum/internal/errors"
)

// DefaultRoleID is the role assigned to freshly registered users.
const DefaultRoleID int64 = 2

// Role groups users under a named set of capability grants.
type Role struct {
	ID        int64
	Name      string
	Info      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Permission is a persisted capability. Rows mirror the capabilities the
// running binary declares; the sync command reconciles the table against the
// declarations on deploy. Module and Name together identify a permission.
type Permission struct {
	ID        int64
	Module    string
	Name      string
	Info      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RolePermission grants one permission to one role.
type RolePermission struct {
	ID           int64
	RoleID       int64
	PermissionID int64
	CreatedAt    time.Time
}

// Domain-specific errors for role and permission operations.
var (
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrRoleAlreadyExists indicates a role with the same name already exists.
	ErrRoleAlreadyExists = errors.Wrap(errors.ErrConflict, "role already exists")

	// ErrRoleInUse indicates the role still has members and cannot be deleted.
	ErrRoleInUse = errors.Wrap(errors.ErrConflict, "role has members")

	// ErrPermissionNotFound indicates the requested permission does not exist.
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")
)
