package app

import (
	"fmt"

	postRepository "github.com/allisson/forum/internal/post/repository"
	postUsecase "github.com/allisson/forum/internal/post/usecase"
)

// PostRepository returns the post repository based on database driver.
func (c *Container) PostRepository() (postUsecase.PostRepository, error) {
	var err error
	c.postRepositoryInit.Do(func() {
		c.postRepository, err = c.initPostRepository()
		if err != nil {
			c.initErrors["postRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["postRepository"]; exists {
		return nil, storedErr
	}
	return c.postRepository, nil
}

// CategoryRepository returns the category repository based on database driver.
func (c *Container) CategoryRepository() (postUsecase.CategoryRepository, error) {
	var err error
	c.categoryRepositoryInit.Do(func() {
		c.categoryRepository, err = c.initCategoryRepository()
		if err != nil {
			c.initErrors["categoryRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["categoryRepository"]; exists {
		return nil, storedErr
	}
	return c.categoryRepository, nil
}

// PostUseCase returns the post use case instance.
func (c *Container) PostUseCase() (postUsecase.UseCase, error) {
	var err error
	c.postUseCaseInit.Do(func() {
		c.postUseCase, err = c.initPostUseCase()
		if err != nil {
			c.initErrors["postUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["postUseCase"]; exists {
		return nil, storedErr
	}
	return c.postUseCase, nil
}

// CategoryUseCase returns the category use case instance.
func (c *Container) CategoryUseCase() (postUsecase.CategoryUseCaseInterface, error) {
	var err error
	c.categoryUseCaseInit.Do(func() {
		c.categoryUseCase, err = c.initCategoryUseCase()
		if err != nil {
			c.initErrors["categoryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["categoryUseCase"]; exists {
		return nil, storedErr
	}
	return c.categoryUseCase, nil
}

// initPostRepository creates the post repository based on the database driver.
func (c *Container) initPostRepository() (postUsecase.PostRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for post repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return postRepository.NewPostgreSQLPostRepository(db), nil
	case "mysql":
		return postRepository.NewMySQLPostRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCategoryRepository creates the category repository based on the database driver.
func (c *Container) initCategoryRepository() (postUsecase.CategoryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for category repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return postRepository.NewPostgreSQLCategoryRepository(db), nil
	case "mysql":
		return postRepository.NewMySQLCategoryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPostUseCase creates the post use case with all its dependencies.
func (c *Container) initPostUseCase() (postUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for post use case: %w", err)
	}

	postRepo, err := c.PostRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get post repository for post use case: %w", err)
	}

	categoryRepo, err := c.CategoryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get category repository for post use case: %w", err)
	}

	return postUsecase.NewPostUseCase(txManager, postRepo, categoryRepo), nil
}

// initCategoryUseCase creates the category use case with all its dependencies.
func (c *Container) initCategoryUseCase() (postUsecase.CategoryUseCaseInterface, error) {
	categoryRepo, err := c.CategoryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get category repository for category use case: %w", err)
	}

	return postUsecase.NewCategoryUseCase(categoryRepo), nil
}
