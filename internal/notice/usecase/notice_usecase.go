// Package usecase implements notice creation and the delivery worker.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/notice/domain"
)

// ErrSubjectOffline signals that the notice's user has no live connection.
// The notice stays pending; it is not a failure.
var ErrSubjectOffline = apperrors.New("subject not connected")

// Config holds delivery worker configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// NoticeRepository defines notice repository operations
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	GetPendingNotices(ctx context.Context, limit int) ([]*domain.Notice, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Notice, error)
	Update(ctx context.Context, notice *domain.Notice) error
}

// Deliverer pushes a notice to its user. Implementations return
// ErrSubjectOffline when the user has no live connection.
type Deliverer interface {
	Deliver(ctx context.Context, notice *domain.Notice) error
}

// UseCase defines the interface for notice use cases
type UseCase interface {
	CreateNotice(ctx context.Context, userID int64, kind, content string) (*domain.Notice, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Notice, error)
	Start(ctx context.Context) error
	DeliverPending(ctx context.Context) error
}

// NoticeUseCase implements notice creation and the polling delivery loop.
type NoticeUseCase struct {
	config     Config
	txManager  database.TxManager
	noticeRepo NoticeRepository
	deliverer  Deliverer
	logger     *slog.Logger
}

// NewNoticeUseCase creates a new NoticeUseCase
func NewNoticeUseCase(
	config Config,
	txManager database.TxManager,
	noticeRepo NoticeRepository,
	deliverer Deliverer,
	logger *slog.Logger,
) *NoticeUseCase {
	return &NoticeUseCase{
		config:     config,
		txManager:  txManager,
		noticeRepo: noticeRepo,
		deliverer:  deliverer,
		logger:     logger,
	}
}

// CreateNotice queues a notice for a user. Callers that need the notice to be
// atomic with another write run this inside a TxManager transaction.
func (uc *NoticeUseCase) CreateNotice(ctx context.Context, userID int64, kind, content string) (*domain.Notice, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate notice id")
	}

	notice := &domain.Notice{
		ID:      id,
		UserID:  userID,
		Kind:    kind,
		Content: content,
		Status:  domain.NoticeStatusPending,
	}

	if err := uc.noticeRepo.Create(ctx, notice); err != nil {
		return nil, apperrors.Wrap(err, "failed to create notice")
	}

	return notice, nil
}

// ListByUser returns a user's notices, newest first.
func (uc *NoticeUseCase) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Notice, error) {
	return uc.noticeRepo.ListByUser(ctx, userID, offset, limit)
}

// Start runs the delivery loop until the context is canceled.
func (uc *NoticeUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting notice delivery worker",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping notice delivery worker")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.DeliverPending(ctx); err != nil {
				uc.logger.Error("failed to deliver notices", slog.Any("error", err))
			}
		}
	}
}

// DeliverPending picks up a batch of pending notices in a transaction and
// pushes each to its user. An offline user keeps the notice pending; a
// delivery error counts against MaxRetries before the notice is marked failed.
func (uc *NoticeUseCase) DeliverPending(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		notices, err := uc.noticeRepo.GetPendingNotices(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(notices) == 0 {
			return nil
		}

		uc.logger.Info("delivering notices", slog.Int("count", len(notices)))

		for _, notice := range notices {
			err := uc.deliverer.Deliver(ctx, notice)
			if err == nil {
				now := time.Now()
				notice.Status = domain.NoticeStatusDelivered
				notice.DeliveredAt = &now

				if err := uc.noticeRepo.Update(ctx, notice); err != nil {
					return err
				}
				continue
			}

			if apperrors.Is(err, ErrSubjectOffline) {
				// The user gets the backlog next time they connect.
				continue
			}

			uc.logger.Error("failed to deliver notice",
				slog.String("notice_id", notice.ID.String()),
				slog.String("kind", notice.Kind),
				slog.Any("error", err),
			)

			notice.Retries++
			errorMsg := err.Error()
			notice.LastError = &errorMsg

			if notice.Retries >= uc.config.MaxRetries {
				notice.Status = domain.NoticeStatusFailed
			}

			if err := uc.noticeRepo.Update(ctx, notice); err != nil {
				return err
			}
		}

		return nil
	})
}
