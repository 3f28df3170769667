package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	noticeUseCase "github.com/allisson/forum/internal/notice/usecase"
	"github.com/allisson/forum/internal/user/http/dto"
	customValidation "github.com/allisson/forum/internal/validation"
)

// NoticeHandler handles HTTP requests for a user's own notices.
type NoticeHandler struct {
	noticeUseCase noticeUseCase.UseCase
	logger        *slog.Logger
}

// NewNoticeHandler creates a new notice handler.
func NewNoticeHandler(useCase noticeUseCase.UseCase, logger *slog.Logger) *NoticeHandler {
	return &NoticeHandler{
		noticeUseCase: useCase,
		logger:        logger,
	}
}

// ListNoticesHandler lists the authenticated user's notices, newest first.
// GET /v1/notices?offset=0&limit=50 - Requires a logged-in identity.
// This is the backlog view: a user who was offline when a notice was queued
// finds it here.
func (h *NoticeHandler) ListNoticesHandler(c *gin.Context) {
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

	notices, err := h.noticeUseCase.ListByUser(c.Request.Context(), identity.SubjectID(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNoticesToListResponse(notices))
}

// CreateNoticeHandler queues a notice for a user.
// POST /v1/notices - Requires the notice announce capability.
// The notice is delivered over the websocket hub if the target is online;
// otherwise it stays pending until they fetch their backlog.
func (h *NoticeHandler) CreateNoticeHandler(c *gin.Context) {
	var req dto.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	notice, err := h.noticeUseCase.CreateNotice(c.Request.Context(), req.UserID, req.Kind, req.Content)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapNoticeToResponse(notice))
}
