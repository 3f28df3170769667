// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/httputil"
)

// AuthenticationMiddleware resolves the request's identity from the
// Authorization header. It runs on every route and never demands a credential
// itself; route guards decide what the request is allowed to do.
//
// Resolution rules:
//   - No Authorization header, or one that is not a Bearer scheme, leaves the
//     request anonymous and continues.
//   - A presented token that fails verification aborts with 401: a caller who
//     went to the trouble of sending a credential must learn it is bad, even
//     on routes that would have served an anonymous request.
//   - A valid token whose subject no longer exists downgrades to anonymous;
//     tokens are self-contained and may outlive their subject.
//
// The middleware installs a fresh identity cell per request and clears it on
// the way out, so an identity never leaks across requests even if the context
// is retained by a misbehaving handler.
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(authUseCase, logger))
//	router.DELETE("/v1/posts/:id", RequirePermission(postDelete, logger), handler)
func AuthenticationMiddleware(
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithIdentityCell(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		defer ClearIdentity(ctx)

		// Missing or non-Bearer header: anonymous request.
		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			c.Next()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			c.Next()
			return
		}

		subjectID, err := useCase.VerifyToken(plainToken)
		if err != nil {
			logger.Debug("authentication failed: token rejected",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		identity, err := useCase.Identify(ctx, subjectID)
		if err != nil {
			if apperrors.Is(err, authDomain.ErrSubjectNotFound) {
				// The token outlived its subject: treat as anonymous.
				logger.Debug("authentication downgraded: subject no longer exists",
					slog.Int64("subject_id", subjectID))
				c.Next()
				return
			}
			logger.Error("authentication failed: subject resolution error",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		SetIdentity(ctx, identity)

		logger.Debug("authentication successful",
			slog.Int64("subject_id", identity.SubjectID()),
			slog.Bool("is_admin", identity.IsAdmin()))

		c.Next()
	}
}

// RequireLogin guards a route behind any authenticated identity.
// Returns 401 when the request is anonymous.
func RequireLogin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentity(c.Request.Context()); !ok {
			logger.Debug("access denied: login required",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin guards a route behind an administrator identity.
// Returns 401 for anonymous requests and 403 for non-admin subjects.
func RequireAdmin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !identity.IsAdmin() {
			logger.Debug("access denied: admin required",
				slog.Int64("subject_id", identity.SubjectID()),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission guards a route behind a declared capability.
// Returns 401 for anonymous requests, 403 when the subject's role lacks the
// capability, and 500 when the grant lookup itself fails.
//
// The descriptor should come from a Registry.Declare call made during router
// construction, so every guarded capability is visible in the permission
// listing before the server accepts traffic.
func RequirePermission(descriptor permission.Descriptor, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		allowed, err := identity.HasPermission(c.Request.Context(), descriptor)
		if err != nil {
			logger.Error("permission check failed",
				slog.Int64("subject_id", identity.SubjectID()),
				slog.String("module", descriptor.Module),
				slog.String("permission", descriptor.Name),
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !allowed {
			logger.Debug("access denied: missing capability",
				slog.Int64("subject_id", identity.SubjectID()),
				slog.String("module", descriptor.Module),
				slog.String("permission", descriptor.Name),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
