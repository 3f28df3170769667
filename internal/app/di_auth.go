package app

import (
	"fmt"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	authRepository "github.com/allisson/forum/internal/auth/repository"
	authService "github.com/allisson/forum/internal/auth/service"
	authUseCase "github.com/allisson/forum/internal/auth/usecase"
	"github.com/allisson/forum/internal/cache"
)

// TokenService returns the token service for issuing and verifying bearer tokens.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = authService.NewTokenService(
			c.config.AuthTokenSecret,
			c.config.AuthTokenAlgorithm,
			c.config.AuthTokenExpiration,
		)
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// AuditLogRepository returns the audit log repository based on database driver.
func (c *Container) AuditLogRepository() (authUseCase.AuditLogRepository, error) {
	var err error
	c.auditLogRepositoryInit.Do(func() {
		c.auditLogRepository, err = c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditLogRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogRepository"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepository, nil
}

// AuditLogUseCase returns the audit log use case.
func (c *Container) AuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	var err error
	c.auditLogUseCaseInit.Do(func() {
		c.auditLogUseCase, err = c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// PermissionResolver returns the resolver guards use for capability lookups.
// When Redis is configured, the storage resolver is wrapped in a read-through
// cache; otherwise every check goes to the permission repository.
func (c *Container) PermissionResolver() (authDomain.PermissionResolver, error) {
	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, err
	}

	cacheDecorator, err := c.PermissionCache()
	if err != nil {
		return nil, err
	}
	if cacheDecorator != nil {
		return cacheDecorator, nil
	}

	return permissionRepo, nil
}

// PermissionCache returns the Redis-backed resolver cache, or nil when no
// REDIS_URL is configured.
func (c *Container) PermissionCache() (*cache.PermissionResolverCache, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, err
	}

	return cache.NewPermissionResolverCache(
		permissionRepo,
		client,
		c.config.PermissionCacheTTL,
		c.Logger(),
	), nil
}

// initAuthUseCase creates the auth use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth use case: %w", err)
	}

	userUC, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for auth use case: %w", err)
	}

	resolver, err := c.PermissionResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission resolver for auth use case: %w", err)
	}

	baseUseCase := authUseCase.NewAuthUseCase(tokenService, userUC, resolver)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuditLogRepository creates the audit log repository based on the database driver.
func (c *Container) initAuditLogRepository() (authUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLAuditLogRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogUseCase creates the audit log use case with all its dependencies.
func (c *Container) initAuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	auditLogRepository, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	auditSigner := authService.NewAuditSigner()

	baseUseCase := authUseCase.NewAuditLogUseCase(
		auditLogRepository,
		auditSigner,
		[]byte(c.config.AuthTokenSecret),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for audit log use case: %w", err)
		}
		return authUseCase.NewAuditLogUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
