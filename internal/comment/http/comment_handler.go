// Package http provides HTTP handlers for comment operations.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	"github.com/allisson/forum/internal/comment/http/dto"
	commentUseCase "github.com/allisson/forum/internal/comment/usecase"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
)

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	commentUseCase commentUseCase.UseCase
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler with required dependencies.
func NewCommentHandler(useCase commentUseCase.UseCase, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentUseCase: useCase,
		logger:         logger,
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

// viewerID resolves the request identity to a subject ID, zero for anonymous.
func viewerID(c *gin.Context) int64 {
	if identity, ok := authHTTP.GetIdentity(c.Request.Context()); ok {
		return identity.SubjectID()
	}
	return 0
}

// CreateCommentHandler writes a comment on a post.
// POST /v1/comments - Requires the comment create capability.
func (h *CommentHandler) CreateCommentHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var input commentUseCase.CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	comment, err := h.commentUseCase.CreateComment(c.Request.Context(), identity.SubjectID(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCommentToResponse(comment))
}

// ListCommentsHandler lists the top-level comments of a post, each with a
// short preview of its replies.
// GET /v1/posts/:id/comments?offset=0&limit=50 - Anonymous allowed on public posts.
func (h *CommentHandler) ListCommentsHandler(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	threads, err := h.commentUseCase.ListThreads(c.Request.Context(), viewerID(c), postID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapThreadsToListResponse(threads))
}

// ListRepliesHandler pages through the replies of a top-level comment.
// GET /v1/comments/:id/replies?offset=0&limit=50 - Anonymous allowed on public posts.
func (h *CommentHandler) ListRepliesHandler(c *gin.Context) {
	rootID, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	replies, err := h.commentUseCase.ListReplies(c.Request.Context(), viewerID(c), rootID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCommentsToListResponse(replies))
}
