// Package http provides HTTP handlers for post and category operations.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	"github.com/allisson/forum/internal/post/http/dto"
	postUseCase "github.com/allisson/forum/internal/post/usecase"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	postUseCase postUseCase.UseCase
	logger      *slog.Logger
}

// NewPostHandler creates a new post handler with required dependencies.
func NewPostHandler(useCase postUseCase.UseCase, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: useCase,
		logger:      logger,
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

// CreatePostHandler creates a post owned by the authenticated member.
// POST /v1/posts - Requires the post create capability.
func (h *PostHandler) CreatePostHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var input postUseCase.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), identity.SubjectID(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPostToResponse(post))
}

// GetPostHandler returns a single post the viewer may read.
// GET /v1/posts/:id - Anonymous viewers see public posts only.
func (h *PostHandler) GetPostHandler(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	post, err := h.postUseCase.GetPost(c.Request.Context(), viewerID(c), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPostToResponse(post))
}

// ListPostsHandler lists the posts the viewer may read, newest first.
// GET /v1/posts?offset=0&limit=50&category_id=0 - Anonymous allowed.
func (h *PostHandler) ListPostsHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || categoryID < 0 {
			httputil.HandleBadRequestGin(c,
				apperrors.New("invalid category_id parameter"), h.logger)
			return
		}
	}

	posts, err := h.postUseCase.ListPosts(c.Request.Context(), viewerID(c), categoryID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPostsToListResponse(posts))
}

// ListMyPostsHandler lists the authenticated member's own posts.
// GET /v1/posts/my?offset=0&limit=50 - Requires a logged-in identity.
func (h *PostHandler) ListMyPostsHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	posts, err := h.postUseCase.ListMyPosts(c.Request.Context(), identity.SubjectID(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPostsToListResponse(posts))
}

// ListHotPostsHandler lists the public posts with the most likes and comments.
// GET /v1/posts/hot - Anonymous allowed.
func (h *PostHandler) ListHotPostsHandler(c *gin.Context) {
	posts, err := h.postUseCase.ListHotPosts(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPostsToListResponse(posts))
}

// UpdatePostHandler updates the author's own post; absent fields are left untouched.
// PUT /v1/posts/:id - Requires the post update capability.
func (h *PostHandler) UpdatePostHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	var input postUseCase.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	post, err := h.postUseCase.UpdatePost(c.Request.Context(), identity.SubjectID(), id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPostToResponse(post))
}

// DeletePostHandler deletes a post. Authors delete their own; admins may
// delete any post.
// DELETE /v1/posts/:id - Requires the post delete capability.
func (h *PostHandler) DeletePostHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	err := h.postUseCase.DeletePost(c.Request.Context(), identity.SubjectID(), identity.IsAdmin(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// LikePostHandler records the member's like on a post.
// POST /v1/posts/:id/like - Requires the post like capability.
func (h *PostHandler) LikePostHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	if err := h.postUseCase.LikePost(c.Request.Context(), identity.SubjectID(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnlikePostHandler removes the member's like from a post.
// DELETE /v1/posts/:id/like - Requires the post like capability.
func (h *PostHandler) UnlikePostHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid id parameter"), h.logger)
		return
	}

	if err := h.postUseCase.UnlikePost(c.Request.Context(), identity.SubjectID(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
