package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/metrics"
	userDomain "github.com/allisson/forum/internal/user/domain"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authenticate records metrics for credential authentication operations.
func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	username, password string,
) (string, *userDomain.User, error) {
	start := time.Now()
	token, user, err := a.next.Authenticate(ctx, username, password)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	a.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return token, user, err
}

// Identify records metrics for subject resolution operations.
func (a *authUseCaseWithMetrics) Identify(
	ctx context.Context,
	subjectID int64,
) (authDomain.Identity, error) {
	start := time.Now()
	id, err := a.next.Identify(ctx, subjectID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "identify", status)
	a.metrics.RecordDuration(ctx, "auth", "identify", time.Since(start), status)

	return id, err
}

// VerifyToken records metrics for token verification operations.
func (a *authUseCaseWithMetrics) VerifyToken(token string) (int64, error) {
	start := time.Now()
	subjectID, err := a.next.VerifyToken(token)

	status := "success"
	if err != nil {
		status = "error"
	}

	ctx := context.Background()
	a.metrics.RecordOperation(ctx, "auth", "verify_token", status)
	a.metrics.RecordDuration(ctx, "auth", "verify_token", time.Since(start), status)

	return subjectID, err
}

// auditLogUseCaseWithMetrics decorates AuditLogUseCase with metrics instrumentation.
type auditLogUseCaseWithMetrics struct {
	next    AuditLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics wraps an AuditLogUseCase with metrics recording.
func NewAuditLogUseCaseWithMetrics(useCase AuditLogUseCase, m metrics.BusinessMetrics) AuditLogUseCase {
	return &auditLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for audit log creation operations.
func (a *auditLogUseCaseWithMetrics) Create(
	ctx context.Context,
	requestID uuid.UUID,
	user *userDomain.User,
	path string,
	method string,
	message string,
	metadata map[string]any,
) error {
	start := time.Now()
	err := a.next.Create(ctx, requestID, user, path, method, message, metadata)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "audit_log_create", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_create", time.Since(start), status)

	return err
}

// List records metrics for audit log list operations.
func (a *auditLogUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*authDomain.AuditLog, error) {
	start := time.Now()
	logs, err := a.next.List(ctx, offset, limit, createdAtFrom, createdAtTo)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "audit_log_list", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_list", time.Since(start), status)

	return logs, err
}

// Verify records metrics for audit log verification operations.
func (a *auditLogUseCaseWithMetrics) Verify(log *authDomain.AuditLog) error {
	start := time.Now()
	err := a.next.Verify(log)

	status := "success"
	if err != nil {
		status = "error"
	}

	ctx := context.Background()
	a.metrics.RecordOperation(ctx, "auth", "audit_log_verify", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_verify", time.Since(start), status)

	return err
}
