package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/forum/internal/auth/http"
	"github.com/allisson/forum/internal/auth/permission"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	commentHTTP "github.com/allisson/forum/internal/comment/http"
	postHTTP "github.com/allisson/forum/internal/post/http"
	uploadHTTP "github.com/allisson/forum/internal/upload/http"
	userHTTP "github.com/allisson/forum/internal/user/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is assembled separately
// with SetupRouter once all handlers are available.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the handlers and middleware settings the route table
// needs. Handlers are required; middleware fields degrade to no-ops when
// disabled or nil.
type RouterConfig struct {
	Registry    *permission.Registry
	AuthUseCase authUseCase.AuthUseCase

	AuthHandler       *authHTTP.AuthHandler
	PermissionHandler *authHTTP.PermissionHandler
	AuditLogHandler   *authHTTP.AuditLogHandler
	UserHandler       *userHTTP.UserHandler
	RoleHandler       *userHTTP.RoleHandler
	NoticeHandler     *userHTTP.NoticeHandler
	UploadHandler     *uploadHTTP.UploadHandler
	PostHandler       *postHTTP.PostHandler
	CategoryHandler   *postHTTP.CategoryHandler
	CommentHandler    *commentHTTP.CommentHandler

	// WSHandler performs its own handshake authentication via the Token
	// header, so it is mounted outside the authenticated group.
	WSHandler http.Handler

	TokenRateLimitEnabled bool
	TokenRateLimitRPS     float64
	TokenRateLimitBurst   int

	// The write rate limit throttles content-producing endpoints per subject.
	WriteRateLimitEnabled bool
	WriteRateLimitRPS     float64
	WriteRateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	// MetricsMiddleware records per-request metrics; nil disables recording.
	MetricsMiddleware gin.HandlerFunc
}

// Capabilities holds every capability descriptor the route table guards.
type Capabilities struct {
	AuditRead      permission.Descriptor
	NoticeAnnounce permission.Descriptor
	PostCreate     permission.Descriptor
	PostUpdate     permission.Descriptor
	PostDelete     permission.Descriptor
	PostLike       permission.Descriptor
	CategoryManage permission.Descriptor
	CommentCreate  permission.Descriptor
}

// DeclareCapabilities declares every capability the route table guards.
// The sync-permissions command calls this without building a server, so the
// stored permission catalog always matches what the router enforces.
func DeclareCapabilities(registry *permission.Registry) Capabilities {
	return Capabilities{
		AuditRead: registry.Declare("audit", "read",
			"Read the administrative audit log"),
		NoticeAnnounce: registry.Declare("notice", "announce",
			"Send a notice to any user"),
		PostCreate: registry.Declare("post", "create",
			"Create a post"),
		PostUpdate: registry.Declare("post", "update",
			"Update one's own posts"),
		PostDelete: registry.Declare("post", "delete",
			"Delete a post"),
		PostLike: registry.Declare("post", "like",
			"Like or unlike a post"),
		CategoryManage: registry.Declare("category", "manage",
			"Create, update and delete post categories"),
		CommentCreate: registry.Declare("comment", "create",
			"Comment on a post"),
	}
}

// SetupRouter builds the route table and declares every guarded capability.
// Declarations happen here, during startup, so the full capability catalog is
// visible to the permission listing before the server accepts traffic.
func (s *Server) SetupRouter(cfg RouterConfig) {
	caps := DeclareCapabilities(cfg.Registry)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// The websocket endpoint authenticates during the handshake, before the
	// connection is upgraded.
	if cfg.WSHandler != nil {
		router.GET("/v1/ws", gin.WrapH(cfg.WSHandler))
	}

	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(cfg.AuthUseCase, s.logger))

	// Token issuance is the only credential-carrying endpoint reachable
	// anonymously; it gets its own IP-based rate limit.
	tokenHandlers := []gin.HandlerFunc{}
	if cfg.TokenRateLimitEnabled {
		tokenHandlers = append(tokenHandlers, authHTTP.TokenRateLimitMiddleware(
			cfg.TokenRateLimitRPS,
			cfg.TokenRateLimitBurst,
			s.logger,
		))
	}
	tokenHandlers = append(tokenHandlers, cfg.AuthHandler.LoginHandler)
	v1.POST("/token", tokenHandlers...)

	// Content-producing endpoints share one per-subject rate limiter; it runs
	// after the login or permission guard so every request it sees carries an
	// identity to key the bucket on.
	writeLimit := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		return handlers
	}
	if cfg.WriteRateLimitEnabled {
		limiter := authHTTP.SubjectRateLimitMiddleware(
			cfg.WriteRateLimitRPS,
			cfg.WriteRateLimitBurst,
			s.logger,
		)
		writeLimit = func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
			return append([]gin.HandlerFunc{handlers[0], limiter}, handlers[1:]...)
		}
	}

	v1.POST("/users", cfg.UserHandler.RegisterHandler)
	v1.POST("/logout", authHTTP.RequireLogin(s.logger), cfg.AuthHandler.LogoutHandler)

	v1.GET("/profile", authHTTP.RequireLogin(s.logger), cfg.UserHandler.GetProfileHandler)
	v1.PUT("/profile", authHTTP.RequireLogin(s.logger), cfg.UserHandler.UpdateProfileHandler)

	v1.GET("/notices", authHTTP.RequireLogin(s.logger), cfg.NoticeHandler.ListNoticesHandler)
	v1.POST("/notices",
		authHTTP.RequirePermission(caps.NoticeAnnounce, s.logger),
		cfg.NoticeHandler.CreateNoticeHandler)

	v1.POST("/upload", writeLimit(
		authHTTP.RequireLogin(s.logger),
		cfg.UploadHandler.UploadHandler)...)

	v1.GET("/audit-logs",
		authHTTP.RequirePermission(caps.AuditRead, s.logger),
		cfg.AuditLogHandler.ListAuditLogsHandler)

	v1.GET("/categories", cfg.CategoryHandler.ListCategoriesHandler)
	v1.POST("/categories",
		authHTTP.RequirePermission(caps.CategoryManage, s.logger),
		cfg.CategoryHandler.CreateCategoryHandler)
	v1.PUT("/categories/:id",
		authHTTP.RequirePermission(caps.CategoryManage, s.logger),
		cfg.CategoryHandler.UpdateCategoryHandler)
	v1.DELETE("/categories/:id",
		authHTTP.RequirePermission(caps.CategoryManage, s.logger),
		cfg.CategoryHandler.DeleteCategoryHandler)

	v1.GET("/posts", cfg.PostHandler.ListPostsHandler)
	v1.GET("/posts/hot", cfg.PostHandler.ListHotPostsHandler)
	v1.GET("/posts/my", authHTTP.RequireLogin(s.logger), cfg.PostHandler.ListMyPostsHandler)
	v1.GET("/posts/:id", cfg.PostHandler.GetPostHandler)
	v1.POST("/posts", writeLimit(
		authHTTP.RequirePermission(caps.PostCreate, s.logger),
		cfg.PostHandler.CreatePostHandler)...)
	v1.PUT("/posts/:id",
		authHTTP.RequirePermission(caps.PostUpdate, s.logger),
		cfg.PostHandler.UpdatePostHandler)
	v1.DELETE("/posts/:id",
		authHTTP.RequirePermission(caps.PostDelete, s.logger),
		cfg.PostHandler.DeletePostHandler)
	v1.POST("/posts/:id/like",
		authHTTP.RequirePermission(caps.PostLike, s.logger),
		cfg.PostHandler.LikePostHandler)
	v1.DELETE("/posts/:id/like",
		authHTTP.RequirePermission(caps.PostLike, s.logger),
		cfg.PostHandler.UnlikePostHandler)

	v1.GET("/posts/:id/comments", cfg.CommentHandler.ListCommentsHandler)
	v1.GET("/comments/:id/replies", cfg.CommentHandler.ListRepliesHandler)
	v1.POST("/comments", writeLimit(
		authHTTP.RequirePermission(caps.CommentCreate, s.logger),
		cfg.CommentHandler.CreateCommentHandler)...)

	admin := v1.Group("/admin")
	admin.Use(authHTTP.RequireAdmin(s.logger))

	admin.GET("/users", cfg.UserHandler.ListUsersHandler)
	admin.DELETE("/users/:id", cfg.UserHandler.DeleteUserHandler)
	admin.PUT("/users/:id/role", cfg.UserHandler.UpdateUserRoleHandler)

	admin.POST("/roles", cfg.RoleHandler.CreateRoleHandler)
	admin.GET("/roles", cfg.RoleHandler.ListRolesHandler)
	admin.GET("/roles/:id", cfg.RoleHandler.GetRoleHandler)
	admin.PUT("/roles/:id", cfg.RoleHandler.UpdateRoleHandler)
	admin.DELETE("/roles/:id", cfg.RoleHandler.DeleteRoleHandler)
	admin.PUT("/roles/:id/permissions", cfg.RoleHandler.DispatchPermissionsHandler)

	admin.GET("/permissions", cfg.PermissionHandler.ListPermissionsHandler)
	admin.GET("/permissions/stored", cfg.RoleHandler.ListStoredPermissionsHandler)

	s.router = router
}

// GetRouter returns the assembled router for testing purposes.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic.
// Checks database connectivity; a failed check returns 503.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Error("readiness check: database ping failed",
			slog.String("error", err.Error()))
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
