// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/forum/internal/errors"
)

// Application error codes exposed in error responses. Clients branch on these
// to decide between silent refresh, forced re-login and "not permitted" UI.
const (
	CodeInternal           = 10000
	CodeNotFound           = 10001
	CodeConflict           = 10002
	CodeInvalidInput       = 10400
	CodeInvalidCredentials = 10401
	CodeExpiredCredential  = 10402
	CodeInvalidCredential  = 10403
	CodeUnauthorized       = 10404
	CodeForbidden          = 10405
)

// ErrorResponse represents a structured error response.
// Code mirrors the HTTP status; ErrorCode is the application-level code.
type ErrorResponse struct {
	Code      int    `json:"code"`
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response.
// Token-shaped failures (expired vs invalid) keep distinct error codes so clients
// can prompt re-authentication instead of treating expiry as tampering.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrExpiredCredential):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeExpiredCredential,
			Message:   "Token expired",
		}

	case apperrors.Is(err, apperrors.ErrInvalidCredential):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeInvalidCredential,
			Message:   "Invalid token",
		}

	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeInvalidCredentials,
			Message:   "Invalid credentials",
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeUnauthorized,
			Message:   "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeForbidden,
			Message:   "You don't have permission to access this resource",
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeNotFound,
			Message:   "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeConflict,
			Message:   "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeInvalidInput,
			Message:   err.Error(),
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Code:      statusCode,
			ErrorCode: CodeInternal,
			Message:   "An internal error occurred",
		}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.Int("error_code", errorResponse.ErrorCode),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:      http.StatusBadRequest,
		ErrorCode: CodeInvalidInput,
		Message:   err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Code:      http.StatusUnprocessableEntity,
		ErrorCode: CodeInvalidInput,
		Message:   err.Error(),
	})
}

// MakeJSONResponse writes a JSON response on a plain http.ResponseWriter.
// Used by handlers that run before a gin context exists (websocket handshake).
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorResponseFor builds the structured error body HandleErrorGin would emit
// for err, without writing it. Used by the websocket handshake which must
// reject before any gin context exists.
func ErrorResponseFor(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrExpiredCredential):
		return http.StatusUnauthorized, ErrorResponse{
			Code: http.StatusUnauthorized, ErrorCode: CodeExpiredCredential, Message: "Token expired",
		}
	case apperrors.Is(err, apperrors.ErrInvalidCredential):
		return http.StatusUnauthorized, ErrorResponse{
			Code: http.StatusUnauthorized, ErrorCode: CodeInvalidCredential, Message: "Invalid token",
		}
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Code: http.StatusUnauthorized, ErrorCode: CodeUnauthorized, Message: "Authentication is required",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Code: http.StatusInternalServerError, ErrorCode: CodeInternal, Message: "An internal error occurred",
		}
	}
}
