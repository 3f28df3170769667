package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/forum/internal/database"
	"github.com/allisson/forum/internal/notice/domain"
)

// MySQLNoticeRepository handles notice persistence for MySQL
type MySQLNoticeRepository struct {
	db *sql.DB
}

// NewMySQLNoticeRepository creates a new MySQLNoticeRepository
func NewMySQLNoticeRepository(db *sql.DB) *MySQLNoticeRepository {
	return &MySQLNoticeRepository{
		db: db,
	}
}

// Create inserts a new notice
func (r *MySQLNoticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notices (id, user_id, kind, content, status, retries, last_error, delivered_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := notice.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, notice.UserID, notice.Kind, notice.Content,
		notice.Status, notice.Retries, notice.LastError, notice.DeliveredAt)

	return err
}

// GetPendingNotices retrieves pending notices with limit, oldest first.
// Rows are locked with SKIP LOCKED so concurrent workers never double-deliver.
func (r *MySQLNoticeRepository) GetPendingNotices(
	ctx context.Context,
	limit int,
) ([]*domain.Notice, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, kind, content, status, retries, last_error, delivered_at, created_at, updated_at
			  FROM notices
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.NoticeStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanMySQLNotices(rows)
}

// ListByUser retrieves a user's notices, newest first, with pagination.
func (r *MySQLNoticeRepository) ListByUser(
	ctx context.Context,
	userID int64,
	offset, limit int,
) ([]*domain.Notice, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, kind, content, status, retries, last_error, delivered_at, created_at, updated_at
			  FROM notices
			  WHERE user_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	notices, err := scanMySQLNotices(rows)
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = make([]*domain.Notice, 0)
	}
	return notices, nil
}

// Update updates a notice
func (r *MySQLNoticeRepository) Update(ctx context.Context, notice *domain.Notice) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notices
			  SET kind = ?, content = ?, status = ?, retries = ?, last_error = ?,
			      delivered_at = ?, updated_at = NOW()
			  WHERE id = ?`

	idBytes, err := notice.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, notice.Kind, notice.Content, notice.Status,
		notice.Retries, notice.LastError, notice.DeliveredAt, idBytes)

	return err
}

// scanMySQLNotices scans rows into notices, unmarshaling BINARY(16) UUIDs.
func scanMySQLNotices(rows *sql.Rows) ([]*domain.Notice, error) {
	var notices []*domain.Notice
	for rows.Next() {
		var notice domain.Notice
		var idBytes []byte

		err := rows.Scan(&idBytes, &notice.UserID, &notice.Kind, &notice.Content, &notice.Status,
			&notice.Retries, &notice.LastError, &notice.DeliveredAt, &notice.CreatedAt, &notice.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := notice.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, err
		}

		notices = append(notices, &notice)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notices, nil
}
