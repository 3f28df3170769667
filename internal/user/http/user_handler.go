// Package http provides HTTP handlers for user and role management operations.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	"github.com/allisson/forum/internal/user/http/dto"
	userUseCase "github.com/allisson/forum/internal/user/usecase"
	customValidation "github.com/allisson/forum/internal/validation"
)

// UserHandler handles HTTP requests for user operations.
// Administrative mutations are recorded in the signed audit log.
type UserHandler struct {
	userUseCase     userUseCase.UseCase
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(
	useCase userUseCase.UseCase,
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase:     useCase,
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// recordAudit writes a signed audit entry for an administrative mutation.
// Audit failures are logged, never surfaced: the mutation already happened.
func recordAudit(
	c *gin.Context,
	users userUseCase.UseCase,
	audits authUseCase.AuditLogUseCase,
	logger *slog.Logger,
	message string,
	metadata map[string]any,
) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		return
	}

	actor, err := users.GetUserByID(c.Request.Context(), identity.SubjectID())
	if err != nil {
		logger.Warn("audit log skipped: actor lookup failed",
			slog.Int64("subject_id", identity.SubjectID()),
			slog.String("error", err.Error()))
		return
	}

	// requestid issues UUID strings; anything else collapses to the nil UUID.
	requestID, _ := uuid.Parse(requestid.Get(c))

	err = audits.Create(
		c.Request.Context(),
		requestID,
		actor,
		c.Request.URL.Path,
		c.Request.Method,
		message,
		metadata,
	)
	if err != nil {
		logger.Error("audit log write failed",
			slog.String("message", message),
			slog.String("error", err.Error()))
	}
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// RegisterHandler creates a new user account.
// POST /v1/users - No authentication required.
// New users get the default member role; a welcome notice is queued in the
// same transaction.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var input userUseCase.RegisterUserInput

	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// GetProfileHandler returns the authenticated user's own record.
// GET /v1/profile - Requires a logged-in identity.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), identity.SubjectID())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// UpdateProfileHandler updates the authenticated user's own profile fields.
// PUT /v1/profile - Requires a logged-in identity.
// Absent fields are left untouched.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var input userUseCase.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.UpdateProfile(c.Request.Context(), identity.SubjectID(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ListUsersHandler lists users with pagination.
// GET /v1/admin/users?offset=0&limit=50 - Requires admin.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// DeleteUserHandler deletes a user.
// DELETE /v1/admin/users/:id - Requires admin. Recorded in the audit log.
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	recordAudit(c, h.userUseCase, h.auditLogUseCase, h.logger,
		"user deleted", map[string]any{"user_id": id})

	c.Status(http.StatusNoContent)
}

// UpdateUserRoleHandler moves a user to another role.
// PUT /v1/admin/users/:id/role - Requires admin. Recorded in the audit log.
func (h *UserHandler) UpdateUserRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.userUseCase.UpdateUserRole(c.Request.Context(), id, req.RoleID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	recordAudit(c, h.userUseCase, h.auditLogUseCase, h.logger,
		"user role updated", map[string]any{"user_id": id, "role_id": req.RoleID})

	c.Status(http.StatusNoContent)
}
