package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uploadService "github.com/allisson/forum/internal/upload/service"
)

func setupUploadRouter(t *testing.T, maxSize int64) (*gin.Engine, uploadService.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage, err := uploadService.NewBlobStorage(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewUploadHandler(storage, maxSize, "/uploads/", logger)

	router := gin.New()
	router.POST("/v1/upload", handler.UploadHandler)
	return router, storage
}

func multipartBody(t *testing.T, fieldName, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadHandler_UploadHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 1024)
		body, contentType := multipartBody(t, "file", "avatar.png", "fake image bytes")

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", body)
		req.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var response UploadResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, strings.HasSuffix(response.Key, ".png"))
		assert.Equal(t, "/uploads/"+response.Key, response.URL)
	})

	t.Run("Error_MissingFileField", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 1024)
		body, contentType := multipartBody(t, "attachment", "avatar.png", "fake image bytes")

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", body)
		req.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Error_FileTooLarge", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 4)
		body, contentType := multipartBody(t, "file", "avatar.png", "more than four bytes")

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", body)
		req.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("Error_UnsupportedFileType", func(t *testing.T) {
		router, _ := setupUploadRouter(t, 1024)
		body, contentType := multipartBody(t, "file", "notes.exe", "binary")

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", body)
		req.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}
