package app

import (
	"fmt"

	noticeRepository "github.com/allisson/forum/internal/notice/repository"
	noticeUsecase "github.com/allisson/forum/internal/notice/usecase"
	"github.com/allisson/forum/internal/ws"
)

// NoticeRepository returns the notice repository based on database driver.
func (c *Container) NoticeRepository() (noticeUsecase.NoticeRepository, error) {
	var err error
	c.noticeRepositoryInit.Do(func() {
		c.noticeRepository, err = c.initNoticeRepository()
		if err != nil {
			c.initErrors["noticeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noticeRepository"]; exists {
		return nil, storedErr
	}
	return c.noticeRepository, nil
}

// NoticeUseCase returns the notice use case, which doubles as the delivery
// worker started by the server command.
func (c *Container) NoticeUseCase() (noticeUsecase.UseCase, error) {
	var err error
	c.noticeUseCaseInit.Do(func() {
		c.noticeUseCase, err = c.initNoticeUseCase()
		if err != nil {
			c.initErrors["noticeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noticeUseCase"]; exists {
		return nil, storedErr
	}
	return c.noticeUseCase, nil
}

// initNoticeRepository creates the notice repository based on the database driver.
func (c *Container) initNoticeRepository() (noticeUsecase.NoticeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for notice repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return noticeRepository.NewPostgreSQLNoticeRepository(db), nil
	case "mysql":
		return noticeRepository.NewMySQLNoticeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initNoticeUseCase creates the notice use case with all its dependencies.
// Deliveries go through the websocket hub; subjects without an open
// connection keep their notices pending.
func (c *Container) initNoticeUseCase() (noticeUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for notice use case: %w", err)
	}

	noticeRepo, err := c.NoticeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get notice repository for notice use case: %w", err)
	}

	useCaseConfig := noticeUsecase.Config{
		Interval:   c.config.NoticeWorkerInterval,
		BatchSize:  c.config.NoticeWorkerBatchSize,
		MaxRetries: c.config.NoticeWorkerMaxRetries,
	}

	deliverer := ws.NewNoticeDeliverer(c.Hub())

	return noticeUsecase.NewNoticeUseCase(useCaseConfig, txManager, noticeRepo, deliverer, c.Logger()), nil
}
