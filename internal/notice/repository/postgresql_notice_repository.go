// Package repository provides data persistence implementations for notices.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/forum/internal/database"
	"github.com/allisson/forum/internal/notice/domain"
)

// PostgreSQLNoticeRepository handles notice persistence for PostgreSQL
type PostgreSQLNoticeRepository struct {
	db *sql.DB
}

// NewPostgreSQLNoticeRepository creates a new PostgreSQLNoticeRepository
func NewPostgreSQLNoticeRepository(db *sql.DB) *PostgreSQLNoticeRepository {
	return &PostgreSQLNoticeRepository{
		db: db,
	}
}

// Create inserts a new notice
func (r *PostgreSQLNoticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notices (id, user_id, kind, content, status, retries, last_error, delivered_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, notice.ID, notice.UserID, notice.Kind, notice.Content,
		notice.Status, notice.Retries, notice.LastError, notice.DeliveredAt)

	return err
}

// GetPendingNotices retrieves pending notices with limit, oldest first.
// Rows are locked with SKIP LOCKED so concurrent workers never double-deliver.
func (r *PostgreSQLNoticeRepository) GetPendingNotices(
	ctx context.Context,
	limit int,
) ([]*domain.Notice, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, kind, content, status, retries, last_error, delivered_at, created_at, updated_at
			  FROM notices
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.NoticeStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var notices []*domain.Notice
	for rows.Next() {
		var notice domain.Notice

		err := rows.Scan(&notice.ID, &notice.UserID, &notice.Kind, &notice.Content, &notice.Status,
			&notice.Retries, &notice.LastError, &notice.DeliveredAt, &notice.CreatedAt, &notice.UpdatedAt)
		if err != nil {
			return nil, err
		}

		notices = append(notices, &notice)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notices, nil
}

// ListByUser retrieves a user's notices, newest first, with pagination.
func (r *PostgreSQLNoticeRepository) ListByUser(
	ctx context.Context,
	userID int64,
	offset, limit int,
) ([]*domain.Notice, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, kind, content, status, retries, last_error, delivered_at, created_at, updated_at
			  FROM notices
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	notices := make([]*domain.Notice, 0)
	for rows.Next() {
		var notice domain.Notice

		err := rows.Scan(&notice.ID, &notice.UserID, &notice.Kind, &notice.Content, &notice.Status,
			&notice.Retries, &notice.LastError, &notice.DeliveredAt, &notice.CreatedAt, &notice.UpdatedAt)
		if err != nil {
			return nil, err
		}

		notices = append(notices, &notice)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notices, nil
}

// Update updates a notice
func (r *PostgreSQLNoticeRepository) Update(ctx context.Context, notice *domain.Notice) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notices
			  SET kind = $1, content = $2, status = $3, retries = $4, last_error = $5,
			      delivered_at = $6, updated_at = NOW()
			  WHERE id = $7`

	_, err := querier.ExecContext(ctx, query, notice.Kind, notice.Content, notice.Status,
		notice.Retries, notice.LastError, notice.DeliveredAt, notice.ID)

	return err
}
