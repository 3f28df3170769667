package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	"github.com/allisson/forum/internal/post/http/dto"
	postUseCase "github.com/allisson/forum/internal/post/usecase"
	userUseCase "github.com/allisson/forum/internal/user/usecase"
)

// CategoryHandler handles HTTP requests for category operations.
// Category mutations are recorded in the signed audit log.
type CategoryHandler struct {
	categoryUseCase postUseCase.CategoryUseCaseInterface
	userUseCase     userUseCase.UseCase
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler with required dependencies.
func NewCategoryHandler(
	useCase postUseCase.CategoryUseCaseInterface,
	users userUseCase.UseCase,
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: useCase,
		userUseCase:     users,
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// recordAudit writes a signed audit entry for a category mutation.
// Audit failures are logged, never surfaced: the mutation already happened.
func (h *CategoryHandler) recordAudit(c *gin.Context, message string, metadata map[string]any) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		return
	}

	actor, err := h.userUseCase.GetUserByID(c.Request.Context(), identity.SubjectID())
	if err != nil {
		h.logger.Warn("audit log skipped: actor lookup failed",
			slog.Int64("subject_id", identity.SubjectID()),
			slog.String("error", err.Error()))
		return
	}

	// requestid issues UUID strings; anything else collapses to the nil UUID.
	requestID, _ := uuid.Parse(requestid.Get(c))

	err = h.auditLogUseCase.Create(
		c.Request.Context(),
		requestID,
		actor,
		c.Request.URL.Path,
		c.Request.Method,
		message,
		metadata,
	)
	if err != nil {
		h.logger.Error("audit log write failed",
			slog.String("message", message),
			slog.String("error", err.Error()))
	}
}

// ListCategoriesHandler lists every category ordered by sort.
// GET /v1/categories - Anonymous allowed.
func (h *CategoryHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.categoryUseCase.ListCategories(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCategoriesToListResponse(categories))
}

// CreateCategoryHandler creates a category.
// POST /v1/categories - Requires the category manage capability. Recorded in
// the audit log.
func (h *CategoryHandler) CreateCategoryHandler(c *gin.Context) {
	var input postUseCase.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	category, err := h.categoryUseCase.CreateCategory(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, "category created", map[string]any{
		"category_id": category.ID,
		"name":        category.Name,
	})

	c.JSON(http.StatusCreated, dto.MapCategoryToResponse(category))
}

// UpdateCategoryHandler replaces the mutable fields of a category.
// PUT /v1/categories/:id - Requires the category manage capability. Recorded
// in the audit log.
func (h *CategoryHandler) UpdateCategoryHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	var input postUseCase.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	category, err := h.categoryUseCase.UpdateCategory(c.Request.Context(), id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, "category updated", map[string]any{
		"category_id": category.ID,
		"name":        category.Name,
	})

	c.JSON(http.StatusOK, dto.MapCategoryToResponse(category))
}

// DeleteCategoryHandler removes a category.
// DELETE /v1/categories/:id - Requires the category manage capability.
// Recorded in the audit log.
func (h *CategoryHandler) DeleteCategoryHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	if err := h.categoryUseCase.DeleteCategory(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordAudit(c, "category deleted", map[string]any{"category_id": id})

	c.Status(http.StatusNoContent)
}
