// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/forum/internal/errors"
)

// UserStatus represents the account state of a user.
type UserStatus int

const (
	// UserStatusBanned blocks the user from authenticating.
	UserStatusBanned UserStatus = 0

	// UserStatusActive is the normal account state.
	UserStatusActive UserStatus = 1
)

// User represents a registered member.
// RoleID links the user to a single role; capability checks resolve
// through that role's grants.
type User struct {
	ID        int64
	Username  string
	Mobile    string
	Email     string
	Password  string
	RoleID    int64
	Signature string
	Avatar    string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same username or mobile already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUserBanned indicates the account is blocked from authenticating.
	ErrUserBanned = errors.Wrap(errors.ErrForbidden, "user is banned")
)
