// Package app provides the dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/forum/internal/auth/permission"
	authService "github.com/allisson/forum/internal/auth/service"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	commentUsecase "github.com/allisson/forum/internal/comment/usecase"
	"github.com/allisson/forum/internal/config"
	"github.com/allisson/forum/internal/database"
	forumHTTP "github.com/allisson/forum/internal/http"
	"github.com/allisson/forum/internal/metrics"
	noticeUsecase "github.com/allisson/forum/internal/notice/usecase"
	postUsecase "github.com/allisson/forum/internal/post/usecase"
	uploadService "github.com/allisson/forum/internal/upload/service"
	userUsecase "github.com/allisson/forum/internal/user/usecase"
	"github.com/allisson/forum/internal/ws"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	db          *sql.DB
	txManager   database.TxManager
	registry    *permission.Registry
	redisClient *redis.Client

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Auth
	tokenService       authService.TokenService
	authUseCase        authUseCase.AuthUseCase
	auditLogRepository authUseCase.AuditLogRepository
	auditLogUseCase    authUseCase.AuditLogUseCase

	// User
	userRepository       userUsecase.UserRepository
	roleRepository       userUsecase.RoleRepository
	permissionRepository userUsecase.PermissionRepository
	userUseCase          *userUsecase.UserUseCase
	roleUseCase          userUsecase.RoleUseCaseInterface

	// Posts and comments
	postRepository     postUsecase.PostRepository
	categoryRepository postUsecase.CategoryRepository
	postUseCase        postUsecase.UseCase
	categoryUseCase    postUsecase.CategoryUseCaseInterface
	commentRepository  commentUsecase.CommentRepository
	commentUseCase     commentUsecase.UseCase

	// Notices and websocket
	noticeRepository noticeUsecase.NoticeRepository
	noticeUseCase    noticeUsecase.UseCase
	hub              *ws.Hub

	// Uploads
	blobStorage uploadService.Storage

	// Servers
	httpServer    *forumHTTP.Server
	metricsServer *forumHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                       sync.Mutex
	loggerInit               sync.Once
	dbInit                   sync.Once
	txManagerInit            sync.Once
	registryInit             sync.Once
	redisClientInit          sync.Once
	metricsProviderInit      sync.Once
	businessMetricsInit      sync.Once
	tokenServiceInit         sync.Once
	authUseCaseInit          sync.Once
	auditLogRepositoryInit   sync.Once
	auditLogUseCaseInit      sync.Once
	userRepositoryInit       sync.Once
	roleRepositoryInit       sync.Once
	permissionRepositoryInit sync.Once
	userUseCaseInit          sync.Once
	roleUseCaseInit          sync.Once
	postRepositoryInit       sync.Once
	categoryRepositoryInit   sync.Once
	postUseCaseInit          sync.Once
	categoryUseCaseInit      sync.Once
	commentRepositoryInit    sync.Once
	commentUseCaseInit       sync.Once
	noticeRepositoryInit     sync.Once
	noticeUseCaseInit        sync.Once
	hubInit                  sync.Once
	blobStorageInit          sync.Once
	httpServerInit           sync.Once
	metricsServerInit        sync.Once
	initErrors               map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// PermissionRegistry returns the in-process capability registry.
// Route construction declares every guarded capability into it.
func (c *Container) PermissionRegistry() *permission.Registry {
	c.registryInit.Do(func() {
		c.registry = permission.NewRegistry()
	})
	return c.registry
}

// RedisClient returns the Redis client, or nil when no REDIS_URL is configured.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		if c.config.RedisURL == "" {
			return
		}
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Hub returns the websocket hub.
func (c *Container) Hub() *ws.Hub {
	c.hubInit.Do(func() {
		c.hub = ws.NewHub(c.Logger())
	})
	return c.hub
}

// BlobStorage returns the blob storage for uploads.
func (c *Container) BlobStorage(ctx context.Context) (uploadService.Storage, error) {
	var err error
	c.blobStorageInit.Do(func() {
		c.blobStorage, err = uploadService.NewBlobStorage(ctx, c.config.UploadBucketURL)
		if err != nil {
			c.initErrors["blobStorage"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStorage"]; exists {
		return nil, storedErr
	}
	return c.blobStorage, nil
}

// HTTPServer returns the API HTTP server with its route table assembled.
func (c *Container) HTTPServer(ctx context.Context) (*forumHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*forumHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = forumHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.blobStorage != nil {
		if err := c.blobStorage.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob storage close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initRedisClient parses the configured URL and creates a Redis client.
func (c *Container) initRedisClient() (*redis.Client, error) {
	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return businessMetrics, nil
}
