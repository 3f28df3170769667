// Package http provides HTTP handlers for authentication and authorization operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/http/dto"
	"github.com/allisson/forum/internal/auth/permission"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	"github.com/allisson/forum/internal/httputil"
	customValidation "github.com/allisson/forum/internal/validation"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	authUseCase     authUseCase.AuthUseCase
	tokenExpiration time.Duration
	logger          *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	useCase authUseCase.AuthUseCase,
	tokenExpiration time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUseCase:     useCase,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}
}

// LoginHandler exchanges a username/password pair for a signed bearer token.
// POST /v1/token - No authentication required (this is the authentication endpoint).
// Returns 201 Created with token and expiration time, or 400 with the
// invalid-credentials code when the pair does not match.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, user, err := h.authUseCase.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenExpiration).UTC(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.RoleID == authDomain.AdminRoleID,
	}

	c.JSON(http.StatusCreated, response)
}

// LogoutHandler drops the request's identity.
// POST /v1/logout - Requires a logged-in identity.
//
// Tokens are self-contained and cannot be revoked server side; logout clears
// the identity for the remainder of this request so later middleware and the
// access log see it as anonymous. Clients discard the token themselves.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	ClearIdentity(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// PermissionHandler handles HTTP requests for the capability listing.
type PermissionHandler struct {
	registry *permission.Registry
	logger   *slog.Logger
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(registry *permission.Registry, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListPermissionsHandler lists every capability declared by the running binary.
// GET /v1/admin/permissions - Requires admin.
//
// The listing reflects declarations, not grants: it answers "what can be
// granted", independent of which roles currently hold what.
func (h *PermissionHandler) ListPermissionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListPermissionsResponse{Data: h.registry.List()})
}

// AuditLogHandler handles HTTP requests for audit log operations.
type AuditLogHandler struct {
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler.
func NewAuditLogHandler(useCase authUseCase.AuditLogUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: useCase,
		logger:          logger,
	}
}

// ListAuditLogsHandler lists audit logs with pagination and optional time bounds.
// GET /v1/audit-logs?offset=0&limit=50&created_at_from=...&created_at_to=...
// Requires the audit read capability. Time bounds are RFC3339 and inclusive.
func (h *AuditLogHandler) ListAuditLogsHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	createdAtFrom, err := parseTimeQuery(c, "created_at_from")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	createdAtTo, err := parseTimeQuery(c, "created_at_to")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	logs, err := h.auditLogUseCase.List(c.Request.Context(), offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditLogsToListResponse(logs))
}

// parseTimeQuery parses an optional RFC3339 timestamp query parameter.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: must be an RFC3339 timestamp", name)
	}

	parsed = parsed.UTC()
	return &parsed, nil
}
