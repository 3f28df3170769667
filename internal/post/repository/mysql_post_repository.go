package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/post/domain"
)

// MySQLPostRepository handles post persistence for MySQL
type MySQLPostRepository struct {
	db *sql.DB
}

// NewMySQLPostRepository creates a new MySQLPostRepository
func NewMySQLPostRepository(db *sql.DB) *MySQLPostRepository {
	return &MySQLPostRepository{
		db: db,
	}
}

const mySQLPostColumns = `id, user_id, category_id, title, summary, content, cover, source, publish, allow_comment, view_count, like_count, comment_count, created_at, updated_at`

// Create inserts a new post and fills in the generated ID
func (r *MySQLPostRepository) Create(ctx context.Context, post *domain.Post) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO posts (user_id, category_id, title, summary, content, cover, source, publish, allow_comment, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(
		ctx, query,
		post.UserID, post.CategoryID, post.Title, post.Summary, post.Content,
		post.Cover, post.Source, post.Publish, post.AllowComment,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrDuplicateTitle
		}
		return apperrors.Wrap(err, "failed to create post")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted post id")
	}
	post.ID = id

	return nil
}

// GetByID retrieves a post by ID
func (r *MySQLPostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLPostColumns + ` FROM posts WHERE id = ?`

	post, err := scanMySQLPost(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get post by id")
	}

	return post, nil
}

// Update persists the mutable fields of a post
func (r *MySQLPostRepository) Update(ctx context.Context, post *domain.Post) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE posts SET category_id = ?, title = ?, summary = ?, content = ?, cover = ?,
			  source = ?, publish = ?, allow_comment = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx, query,
		post.CategoryID, post.Title, post.Summary, post.Content, post.Cover,
		post.Source, post.Publish, post.AllowComment, post.ID,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrDuplicateTitle
		}
		return apperrors.Wrap(err, "failed to update post")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// Delete removes a post by ID. Comments and likes cascade in the database.
func (r *MySQLPostRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete post")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// List retrieves the posts readable by the viewer, newest first, with
// pagination. A viewerID of zero means anonymous and sees only public posts;
// an authenticated viewer also sees logged-in posts and their own. A
// categoryID of zero means all categories.
func (r *MySQLPostRepository) List(ctx context.Context, viewerID, categoryID int64, offset, limit int) ([]*domain.Post, error) {
	querier := database.GetTx(ctx, r.db)

	var conditions []string
	var args []any

	if viewerID == 0 {
		conditions = append(conditions, "publish = "+strconv.Itoa(int(domain.PublishPublic)))
	} else {
		args = append(args, viewerID)
		conditions = append(conditions,
			"(publish <= "+strconv.Itoa(int(domain.PublishLoggedIn))+" OR user_id = ?)")
	}

	if categoryID != 0 {
		args = append(args, categoryID)
		conditions = append(conditions, "category_id = ?")
	}

	query := `SELECT ` + mySQLPostColumns + ` FROM posts WHERE ` + strings.Join(conditions, " AND ") +
		" ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryPosts(ctx, querier, query, args...)
}

// ListByAuthor retrieves the author's posts regardless of visibility, newest first
func (r *MySQLPostRepository) ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]*domain.Post, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLPostColumns + ` FROM posts WHERE user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`

	return r.queryPosts(ctx, querier, query, authorID, limit, offset)
}

// ListHot retrieves the public posts with the most likes and comments
func (r *MySQLPostRepository) ListHot(ctx context.Context, limit int) ([]*domain.Post, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLPostColumns + ` FROM posts
			  WHERE publish = ?
			  ORDER BY (like_count + comment_count) DESC, id DESC
			  LIMIT ?`

	return r.queryPosts(ctx, querier, query, domain.PublishPublic, limit)
}

// IncrementViewCount bumps the view counter of a post
func (r *MySQLPostRepository) IncrementViewCount(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE posts SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment post view count")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// CreateLike records a like for the (post, user) pair
func (r *MySQLPostRepository) CreateLike(ctx context.Context, postID, userID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, NOW())`

	if _, err := querier.ExecContext(ctx, query, postID, userID); err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrAlreadyLiked
		}
		return apperrors.Wrap(err, "failed to create post like")
	}

	return nil
}

// DeleteLike removes the like for the (post, user) pair
func (r *MySQLPostRepository) DeleteLike(ctx context.Context, postID, userID int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete post like")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrNotLiked
	}

	return nil
}

// AdjustLikeCount moves the like counter of a post by delta
func (r *MySQLPostRepository) AdjustLikeCount(ctx context.Context, postID int64, delta int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + ? WHERE id = ?`, delta, postID)
	if err != nil {
		return apperrors.Wrap(err, "failed to adjust post like count")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// AdjustCommentCount moves the comment counter of a post by delta
func (r *MySQLPostRepository) AdjustCommentCount(ctx context.Context, postID int64, delta int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count + ? WHERE id = ?`, delta, postID)
	if err != nil {
		return apperrors.Wrap(err, "failed to adjust post comment count")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

func (r *MySQLPostRepository) queryPosts(ctx context.Context, querier database.Querier, query string, args ...any) ([]*domain.Post, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list posts")
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post, err := scanMySQLPost(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate posts")
	}

	return posts, nil
}

func scanMySQLPost(row rowScanner) (*domain.Post, error) {
	var post domain.Post
	err := row.Scan(
		&post.ID, &post.UserID, &post.CategoryID, &post.Title, &post.Summary,
		&post.Content, &post.Cover, &post.Source, &post.Publish, &post.AllowComment,
		&post.ViewCount, &post.LikeCount, &post.CommentCount,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
