// Package usecase defines business logic interfaces for authentication and authorization operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	userDomain "github.com/allisson/forum/internal/user/domain"
)

// UserProvider defines the user operations the auth module depends on.
// Implemented by the user module's use case; the auth module never touches
// user storage directly.
type UserProvider interface {
	// GetUserByID retrieves a user by ID. Returns ErrUserNotFound if missing.
	GetUserByID(ctx context.Context, id int64) (*userDomain.User, error)

	// ValidateCredentials checks a username/password pair and returns the user.
	// Returns ErrInvalidCredentials on any mismatch.
	ValidateCredentials(ctx context.Context, username, password string) (*userDomain.User, error)
}

// AuthUseCase defines business logic operations for the authentication flow.
type AuthUseCase interface {
	// Authenticate exchanges a username/password pair for a signed bearer token.
	// Returns ErrInvalidCredentials without distinguishing an unknown username
	// from a wrong password.
	Authenticate(ctx context.Context, username, password string) (token string, user *userDomain.User, err error)

	// Identify resolves a verified subject ID into an Identity carrying the
	// subject's capability set. Returns ErrSubjectNotFound when the subject
	// no longer exists; the caller decides whether that is fatal (guarded
	// endpoints) or downgrades to anonymous (silent identification).
	Identify(ctx context.Context, subjectID int64) (authDomain.Identity, error)

	// VerifyToken checks a bearer token and returns the subject ID it asserts.
	// Returns ErrExpiredCredential or ErrInvalidCredential on failure.
	VerifyToken(token string) (int64, error)
}

// AuditLogRepository defines persistence operations for audit logs.
// Implementations must support transaction-aware operations via context propagation.
type AuditLogRepository interface {
	// Create stores a new audit log in the repository.
	Create(ctx context.Context, auditLog *authDomain.AuditLog) error

	// List retrieves audit logs ordered by created_at descending with
	// pagination and optional inclusive time bounds (nil means unbounded).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*authDomain.AuditLog, error)
}

// AuditLogUseCase defines business logic operations for recording administrative actions.
type AuditLogUseCase interface {
	// Create records a signed audit log entry for an administrative operation.
	Create(
		ctx context.Context,
		requestID uuid.UUID,
		user *userDomain.User,
		path string,
		method string,
		message string,
		metadata map[string]any,
	) error

	// List retrieves audit logs with pagination and optional time filtering.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*authDomain.AuditLog, error)

	// Verify recomputes the signature of an audit log and reports tampering.
	Verify(log *authDomain.AuditLog) error
}
