package dto

import (
	"time"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
)

// LoginResponse contains the result of a successful authentication.
// SECURITY: The token is only returned here and must be saved by the caller.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
}

// ListPermissionsResponse represents the declared capability listing.
type ListPermissionsResponse struct {
	Data []permission.Descriptor `json:"data"`
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	RequestID string         `json:"request_id"`
	UserID    int64          `json:"user_id"`
	Username  string         `json:"username"`
	Path      string         `json:"path"`
	Method    string         `json:"method"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MapAuditLogToResponse converts a domain audit log to an API response.
// The signature stays internal; verification happens server side.
func MapAuditLogToResponse(log *authDomain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        log.ID.String(),
		RequestID: log.RequestID.String(),
		UserID:    log.UserID,
		Username:  log.Username,
		Path:      log.Path,
		Method:    log.Method,
		Message:   log.Message,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}

// ListAuditLogsResponse represents a paginated list of audit logs.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts domain audit logs to a list API response.
func MapAuditLogsToListResponse(logs []*authDomain.AuditLog) ListAuditLogsResponse {
	responses := make([]AuditLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, MapAuditLogToResponse(log))
	}
	return ListAuditLogsResponse{
		Data: responses,
	}
}
