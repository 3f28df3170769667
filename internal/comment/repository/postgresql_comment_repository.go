// Package repository provides data persistence implementations for comment entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/forum/internal/comment/domain"
	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
)

// PostgreSQLCommentRepository handles comment persistence for PostgreSQL
type PostgreSQLCommentRepository struct {
	db *sql.DB
}

// NewPostgreSQLCommentRepository creates a new PostgreSQLCommentRepository
func NewPostgreSQLCommentRepository(db *sql.DB) *PostgreSQLCommentRepository {
	return &PostgreSQLCommentRepository{
		db: db,
	}
}

const postgreSQLCommentColumns = `id, post_id, user_id, root_id, parent_id, content, reply_count, created_at`

// Create inserts a new comment and fills in the generated ID
func (r *PostgreSQLCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO comments (post_id, user_id, root_id, parent_id, content, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx, query,
		comment.PostID, comment.UserID, comment.RootID, comment.ParentID, comment.Content,
	).Scan(&comment.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create comment")
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgreSQLCommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgreSQLCommentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanPostgreSQLComment(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get comment by id")
	}

	return comment, nil
}

// ListRoots retrieves the top-level comments of a post, oldest first, with pagination
func (r *PostgreSQLCommentRepository) ListRoots(ctx context.Context, postID int64, offset, limit int) ([]*domain.Comment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgreSQLCommentColumns + ` FROM comments
			  WHERE post_id = $1 AND root_id = 0
			  ORDER BY id LIMIT $2 OFFSET $3`

	return r.queryComments(ctx, querier, query, postID, limit, offset)
}

// ListReplies retrieves the replies under a top-level comment, oldest first, with pagination
func (r *PostgreSQLCommentRepository) ListReplies(ctx context.Context, rootID int64, offset, limit int) ([]*domain.Comment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgreSQLCommentColumns + ` FROM comments
			  WHERE root_id = $1
			  ORDER BY id LIMIT $2 OFFSET $3`

	return r.queryComments(ctx, querier, query, rootID, limit, offset)
}

// AdjustReplyCount moves the reply counter of a top-level comment by delta
func (r *PostgreSQLCommentRepository) AdjustReplyCount(ctx context.Context, id int64, delta int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE comments SET reply_count = reply_count + $1 WHERE id = $2`, delta, id)
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

func (r *PostgreSQLCommentRepository) queryComments(ctx context.Context, querier database.Querier, query string, args ...any) ([]*domain.Comment, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comments")
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanPostgreSQLComment(rows)
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

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLComment(row rowScanner) (*domain.Comment, error) {
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
