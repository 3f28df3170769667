package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	"github.com/allisson/forum/internal/user/http/dto"
	userUseCase "github.com/allisson/forum/internal/user/usecase"
	customValidation "github.com/allisson/forum/internal/validation"
)

// GrantInvalidator drops cached capability sets after a grant change.
// Satisfied by the Redis permission cache; a nil invalidator is a no-op.
type GrantInvalidator interface {
	InvalidateRole(ctx context.Context, roleID int64)
}

// RoleHandler handles HTTP requests for role and grant administration.
// Every mutation is recorded in the signed audit log.
type RoleHandler struct {
	roleUseCase     userUseCase.RoleUseCaseInterface
	userUseCase     userUseCase.UseCase
	auditLogUseCase authUseCase.AuditLogUseCase
	invalidator     GrantInvalidator
	logger          *slog.Logger
}

// NewRoleHandler creates a new role handler with required dependencies.
// The invalidator may be nil when no permission cache is configured.
func NewRoleHandler(
	roleUseCase userUseCase.RoleUseCaseInterface,
	usersUseCase userUseCase.UseCase,
	auditLogUseCase authUseCase.AuditLogUseCase,
	invalidator GrantInvalidator,
	logger *slog.Logger,
) *RoleHandler {
	return &RoleHandler{
		roleUseCase:     roleUseCase,
		userUseCase:     usersUseCase,
		auditLogUseCase: auditLogUseCase,
		invalidator:     invalidator,
		logger:          logger,
	}
}

// CreateRoleHandler creates a new role.
// POST /v1/admin/roles - Requires admin. Recorded in the audit log.
func (h *RoleHandler) CreateRoleHandler(c *gin.Context) {
	var input userUseCase.RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.CreateRole(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	recordAudit(c, h.userUseCase, h.auditLogUseCase, h.logger,
		"role created", map[string]any{"role_id": role.ID, "name": role.Name})

	c.JSON(http.StatusCreated, dto.MapRoleToResponse(role))
}

// ListRolesHandler lists roles with pagination.
// GET /v1/admin/roles?offset=0&limit=50 - Requires admin.
func (h *RoleHandler) ListRolesHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	roles, err := h.roleUseCase.ListRoles(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRolesToListResponse(roles))
}

// GetRoleHandler returns a role together with its granted permissions.
// GET /v1/admin/roles/:id - Requires admin.
func (h *RoleHandler) GetRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	role, err := h.roleUseCase.GetRoleByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	granted, err := h.roleUseCase.ListGrantedPermissions(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RoleWithPermissionsResponse{
		Role:        dto.MapRoleToResponse(role),
		Permissions: dto.MapPermissionsToListResponse(granted).Data,
	})
}

// UpdateRoleHandler renames a role or changes its description.
// PUT /v1/admin/roles/:id - Requires admin. Recorded in the audit log.
func (h *RoleHandler) UpdateRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	var input userUseCase.RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.UpdateRole(c.Request.Context(), id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	recordAudit(c, h.userUseCase, h.auditLogUseCase, h.logger,
		"role updated", map[string]any{"role_id": id, "name": role.Name})

	c.JSON(http.StatusOK, dto.MapRoleToResponse(role))
}

// DeleteRoleHandler deletes a role without members.
// DELETE /v1/admin/roles/:id - Requires admin. Recorded in the audit log.
func (h *RoleHandler) DeleteRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	if err := h.roleUseCase.DeleteRole(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	recordAudit(c, h.userUseCase, h.auditLogUseCase, h.logger,
		"role deleted", map[string]any{"role_id": id})

	c.Status(http.StatusNoContent)
}

// DispatchPermissionsHandler replaces a role's grant set.
// PUT /v1/admin/roles/:id/permissions - Requires admin. Recorded in the audit log.
// The request carries the complete set; an empty list withdraws everything.
func (h *RoleHandler) DispatchPermissionsHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	var req dto.DispatchPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.roleUseCase.DispatchPermissions(c.Request.Context(), id, req.PermissionIDs); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if h.invalidator != nil {
		h.invalidator.InvalidateRole(c.Request.Context(), id)
	}

	recordAudit(c, h.userUseCase, h.auditLogUseCase, h.logger,
		"role permissions dispatched", map[string]any{
			"role_id":        id,
			"permission_ids": req.PermissionIDs,
		})

	c.Status(http.StatusNoContent)
}

// ListStoredPermissionsHandler lists the synced permission rows.
// GET /v1/admin/permissions/stored - Requires admin.
// Unlike the declared-capability listing, these rows carry the IDs that
// grant dispatch requests reference.
func (h *RoleHandler) ListStoredPermissionsHandler(c *gin.Context) {
	permissions, err := h.roleUseCase.ListPermissions(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPermissionsToListResponse(permissions))
}
