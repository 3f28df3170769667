package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	commentHTTP "github.com/allisson/forum/internal/comment/http"
	forumHTTP "github.com/allisson/forum/internal/http"
	"github.com/allisson/forum/internal/metrics"
	postHTTP "github.com/allisson/forum/internal/post/http"
	uploadHTTP "github.com/allisson/forum/internal/upload/http"
	userHTTP "github.com/allisson/forum/internal/user/http"
	"github.com/allisson/forum/internal/ws"
)

// initHTTPServer creates the API server, builds every handler, and assembles
// the route table.
func (c *Container) initHTTPServer(ctx context.Context) (*forumHTTP.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authUC, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for http server: %w", err)
	}

	auditLogUC, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for http server: %w", err)
	}

	userUC, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	roleUC, err := c.RoleUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get role use case for http server: %w", err)
	}

	noticeUC, err := c.NoticeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notice use case for http server: %w", err)
	}

	postUC, err := c.PostUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get post use case for http server: %w", err)
	}

	categoryUC, err := c.CategoryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get category use case for http server: %w", err)
	}

	commentUC, err := c.CommentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment use case for http server: %w", err)
	}

	blobStorage, err := c.BlobStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blob storage for http server: %w", err)
	}

	// Nil when Redis is not configured; the role handler treats that as a no-op.
	permissionCache, err := c.PermissionCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission cache for http server: %w", err)
	}
	var invalidator userHTTP.GrantInvalidator
	if permissionCache != nil {
		invalidator = permissionCache
	}

	var metricsMiddleware gin.HandlerFunc
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		metricsMiddleware = metrics.HTTPMetricsMiddleware(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
	}

	server := forumHTTP.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)

	server.SetupRouter(forumHTTP.RouterConfig{
		Registry:    c.PermissionRegistry(),
		AuthUseCase: authUC,

		AuthHandler:       authHTTP.NewAuthHandler(authUC, c.config.AuthTokenExpiration, logger),
		PermissionHandler: authHTTP.NewPermissionHandler(c.PermissionRegistry(), logger),
		AuditLogHandler:   authHTTP.NewAuditLogHandler(auditLogUC, logger),
		UserHandler:       userHTTP.NewUserHandler(userUC, auditLogUC, logger),
		RoleHandler:       userHTTP.NewRoleHandler(roleUC, userUC, auditLogUC, invalidator, logger),
		NoticeHandler:     userHTTP.NewNoticeHandler(noticeUC, logger),
		UploadHandler: uploadHTTP.NewUploadHandler(
			blobStorage,
			c.config.UploadMaxSizeBytes,
			c.config.UploadURLPrefix,
			logger,
		),
		PostHandler:     postHTTP.NewPostHandler(postUC, logger),
		CategoryHandler: postHTTP.NewCategoryHandler(categoryUC, userUC, auditLogUC, logger),
		CommentHandler:  commentHTTP.NewCommentHandler(commentUC, logger),

		WSHandler: ws.NewHandler(c.Hub(), authUC, logger),

		TokenRateLimitEnabled: c.config.RateLimitTokenEnabled,
		TokenRateLimitRPS:     c.config.RateLimitTokenRequestsPerSec,
		TokenRateLimitBurst:   c.config.RateLimitTokenBurst,

		WriteRateLimitEnabled: c.config.RateLimitWriteEnabled,
		WriteRateLimitRPS:     c.config.RateLimitWriteRequestsPerSec,
		WriteRateLimitBurst:   c.config.RateLimitWriteBurst,

		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,

		MetricsMiddleware: metricsMiddleware,
	})

	return server, nil
}
