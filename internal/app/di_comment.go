package app

import (
	"fmt"

	commentRepository "github.com/allisson/forum/internal/comment/repository"
	commentUsecase "github.com/allisson/forum/internal/comment/usecase"
)

// CommentRepository returns the comment repository based on database driver.
func (c *Container) CommentRepository() (commentUsecase.CommentRepository, error) {
	var err error
	c.commentRepositoryInit.Do(func() {
		c.commentRepository, err = c.initCommentRepository()
		if err != nil {
			c.initErrors["commentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["commentRepository"]; exists {
		return nil, storedErr
	}
	return c.commentRepository, nil
}

// CommentUseCase returns the comment use case instance.
func (c *Container) CommentUseCase() (commentUsecase.UseCase, error) {
	var err error
	c.commentUseCaseInit.Do(func() {
		c.commentUseCase, err = c.initCommentUseCase()
		if err != nil {
			c.initErrors["commentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["commentUseCase"]; exists {
		return nil, storedErr
	}
	return c.commentUseCase, nil
}

// initCommentRepository creates the comment repository based on the database driver.
func (c *Container) initCommentRepository() (commentUsecase.CommentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for comment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return commentRepository.NewPostgreSQLCommentRepository(db), nil
	case "mysql":
		return commentRepository.NewMySQLCommentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCommentUseCase creates the comment use case with all its dependencies.
func (c *Container) initCommentUseCase() (commentUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for comment use case: %w", err)
	}

	commentRepo, err := c.CommentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment repository for comment use case: %w", err)
	}

	// The concrete post repository also satisfies the narrower view the
	// comment module needs.
	postRepo, err := c.PostRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get post repository for comment use case: %w", err)
	}

	return commentUsecase.NewCommentUseCase(txManager, commentRepo, postRepo), nil
}
