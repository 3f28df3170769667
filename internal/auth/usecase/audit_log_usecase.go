package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	authService "github.com/allisson/forum/internal/auth/service"
	apperrors "github.com/allisson/forum/internal/errors"
	userDomain "github.com/allisson/forum/internal/user/domain"
)

// auditLogUseCase implements AuditLogUseCase for recording signed audit logs.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	signer       authService.AuditSigner
	signerSecret []byte
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
// The signer secret is shared with the token service configuration; the signer
// derives its own key from it so audit signatures and token signatures never
// use the same key material.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	signer authService.AuditSigner,
	signerSecret []byte,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		signer:       signer,
		signerSecret: signerSecret,
	}
}

// Create records a signed audit log entry for an administrative operation.
// Generates a unique UUIDv7 identifier and timestamp, then signs the canonical
// content so tampering with stored rows is detectable.
func (a *auditLogUseCase) Create(
	ctx context.Context,
	requestID uuid.UUID,
	user *userDomain.User,
	path string,
	method string,
	message string,
	metadata map[string]any,
) error {
	auditLog := &authDomain.AuditLog{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: requestID,
		UserID:    user.ID,
		Username:  user.Username,
		Path:      path,
		Method:    method,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	signature, err := a.signer.Sign(a.signerSecret, auditLog)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit log")
	}
	auditLog.Signature = signature

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending (newest first) with pagination
// and optional time-based filtering. Both boundaries are inclusive and expected in UTC.
func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*authDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// Verify recomputes the signature of an audit log and reports tampering.
func (a *auditLogUseCase) Verify(log *authDomain.AuditLog) error {
	return a.signer.Verify(a.signerSecret, log)
}
