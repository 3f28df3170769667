package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/post/domain"
)

// MySQLCategoryRepository handles category persistence for MySQL
type MySQLCategoryRepository struct {
	db *sql.DB
}

// NewMySQLCategoryRepository creates a new MySQLCategoryRepository
func NewMySQLCategoryRepository(db *sql.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{
		db: db,
	}
}

const mySQLCategoryColumns = `id, name, info, banner, sort, created_at, updated_at`

// Create inserts a new category and fills in the generated ID
func (r *MySQLCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO categories (name, info, banner, sort, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(
		ctx, query,
		category.Name, category.Info, category.Banner, category.Sort,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrCategoryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create category")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted category id")
	}
	category.ID = id

	return nil
}

// GetByID retrieves a category by ID
func (r *MySQLCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLCategoryColumns + ` FROM categories WHERE id = ?`

	category, err := scanMySQLCategory(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get category by id")
	}

	return category, nil
}

// List retrieves all categories ordered by sort then ID
func (r *MySQLCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLCategoryColumns + ` FROM categories ORDER BY sort, id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}
	defer func() { _ = rows.Close() }()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanMySQLCategory(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate categories")
	}

	return categories, nil
}

// Update persists the mutable fields of a category
func (r *MySQLCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE categories SET name = ?, info = ?, banner = ?, sort = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx, query,
		category.Name, category.Info, category.Banner, category.Sort, category.ID,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrCategoryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update category")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category by ID
func (r *MySQLCategoryRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete category")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func scanMySQLCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID, &category.Name, &category.Info, &category.Banner,
		&category.Sort, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
