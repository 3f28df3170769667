// Package http provides the HTTP handler for file uploads.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
	uploadService "github.com/allisson/forum/internal/upload/service"
)

// allowedExtensions are the file types accepted for upload.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// UploadHandler handles HTTP requests for file uploads.
type UploadHandler struct {
	storage      uploadService.Storage
	maxSizeBytes int64
	urlPrefix    string
	logger       *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(
	storage uploadService.Storage,
	maxSizeBytes int64,
	urlPrefix string,
	logger *slog.Logger,
) *UploadHandler {
	return &UploadHandler{
		storage:      storage,
		maxSizeBytes: maxSizeBytes,
		urlPrefix:    strings.TrimSuffix(urlPrefix, "/"),
		logger:       logger,
	}
}

// UploadResponse contains the stored file's location.
type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadHandler stores a multipart file under a UUID-derived key.
// POST /v1/upload - Requires a logged-in identity.
// The file arrives in the "file" form field; oversized or unsupported files
// are rejected with 422.
func (h *UploadHandler) UploadHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("missing file field: %w", err), h.logger)
		return
	}

	if fileHeader.Size > h.maxSizeBytes {
		httputil.HandleErrorGin(c, apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"file exceeds the %d byte limit", h.maxSizeBytes,
		), h.logger)
		return
	}

	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		httputil.HandleErrorGin(c, apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"unsupported file type %q", ext,
		), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to open uploaded file"), h.logger)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	id, err := uuid.NewV7()
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to generate upload key"), h.logger)
		return
	}
	key := id.String() + ext

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.storage.Save(c.Request.Context(), key, contentType, file); err != nil {
		h.logger.Error("upload failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Key: key,
		URL: h.urlPrefix + "/" + key,
	})
}
