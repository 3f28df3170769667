package app

import (
	"fmt"

	userRepository "github.com/allisson/forum/internal/user/repository"
	userUsecase "github.com/allisson/forum/internal/user/usecase"
)

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// RoleRepository returns the role repository based on database driver.
func (c *Container) RoleRepository() (userUsecase.RoleRepository, error) {
	var err error
	c.roleRepositoryInit.Do(func() {
		c.roleRepository, err = c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleRepository"]; exists {
		return nil, storedErr
	}
	return c.roleRepository, nil
}

// PermissionRepository returns the permission repository based on database driver.
func (c *Container) PermissionRepository() (userUsecase.PermissionRepository, error) {
	var err error
	c.permissionRepositoryInit.Do(func() {
		c.permissionRepository, err = c.initPermissionRepository()
		if err != nil {
			c.initErrors["permissionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionRepository"]; exists {
		return nil, storedErr
	}
	return c.permissionRepository, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (*userUsecase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// RoleUseCase returns the role use case instance.
func (c *Container) RoleUseCase() (userUsecase.RoleUseCaseInterface, error) {
	var err error
	c.roleUseCaseInit.Do(func() {
		c.roleUseCase, err = c.initRoleUseCase()
		if err != nil {
			c.initErrors["roleUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleUseCase"]; exists {
		return nil, storedErr
	}
	return c.roleUseCase, nil
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRoleRepository creates the role repository based on the database driver.
func (c *Container) initRoleRepository() (userUsecase.RoleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return userRepository.NewPostgreSQLRoleRepository(db), nil
	case "mysql":
		return userRepository.NewMySQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPermissionRepository creates the permission repository based on the database driver.
func (c *Container) initPermissionRepository() (userUsecase.PermissionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for permission repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return userRepository.NewPostgreSQLPermissionRepository(db), nil
	case "mysql":
		return userRepository.NewMySQLPermissionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (*userUsecase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for user use case: %w", err)
	}

	noticeRepo, err := c.NoticeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get notice repository for user use case: %w", err)
	}

	useCase, err := userUsecase.NewUserUseCase(txManager, userRepo, roleRepo, noticeRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create user use case: %w", err)
	}

	return useCase, nil
}

// initRoleUseCase creates the role use case with all its dependencies.
func (c *Container) initRoleUseCase() (userUsecase.RoleUseCaseInterface, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for role use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for role use case: %w", err)
	}

	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for role use case: %w", err)
	}

	return userUsecase.NewRoleUseCase(txManager, roleRepo, permissionRepo), nil
}
