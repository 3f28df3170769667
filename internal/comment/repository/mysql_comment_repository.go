package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/forum/internal/comment/domain"
	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
)

// MySQLCommentRepository handles comment persistence for MySQL
type MySQLCommentRepository struct {
	db *sql.DB
}

// NewMySQLCommentRepository creates a new MySQLCommentRepository
func NewMySQLCommentRepository(db *sql.DB) *MySQLCommentRepository {
	return &MySQLCommentRepository{
		db: db,
	}
}

const mySQLCommentColumns = `id, post_id, user_id, root_id, parent_id, content, reply_count, created_at`

// Create inserts a new comment and fills in the generated ID
func (r *MySQLCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO comments (post_id, user_id, root_id, parent_id, content, created_at)
			  VALUES (?, ?, ?, ?, ?, NOW())`

	result, err := querier.ExecContext(
		ctx, query,
		comment.PostID, comment.UserID, comment.RootID, comment.ParentID, comment.Content,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create comment")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted comment id")
	}
	comment.ID = id

	return nil
}

// GetByID retrieves a comment by ID
func (r *MySQLCommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLCommentColumns + ` FROM comments WHERE id = ?`

	comment, err := scanMySQLComment(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get comment by id")
	}

	return comment, nil
}

// ListRoots retrieves the top-level comments of a post, oldest first, with pagination
func (r *MySQLCommentRepository) ListRoots(ctx context.Context, postID int64, offset, limit int) ([]*domain.Comment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLCommentColumns + ` FROM comments
			  WHERE post_id = ? AND root_id = 0
			  ORDER BY id LIMIT ? OFFSET ?`

	return r.queryComments(ctx, querier, query, postID, limit, offset)
}

// ListReplies retrieves the replies under a top-level comment, oldest first, with pagination
func (r *MySQLCommentRepository) ListReplies(ctx context.Context, rootID int64, offset, limit int) ([]*domain.Comment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLCommentColumns + ` FROM comments
			  WHERE root_id = ?
			  ORDER BY id LIMIT ? OFFSET ?`

	return r.queryComments(ctx, querier, query, rootID, limit, offset)
}

// AdjustReplyCount moves the reply counter of a top-level comment by delta
func (r *MySQLCommentRepository) AdjustReplyCount(ctx context.Context, id int64, delta int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE comments SET reply_count = reply_count + ? WHERE id = ?`, delta, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to adjust comment reply count")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

func (r *MySQLCommentRepository) queryComments(ctx context.Context, querier database.Querier, query string, args ...any) ([]*domain.Comment, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comments")
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanMySQLComment(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate comments")
	}

	return comments, nil
}

func scanMySQLComment(row rowScanner) (*domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.UserID, &comment.RootID,
		&comment.ParentID, &comment.Content, &comment.ReplyCount, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
