package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/post/domain"
)

// PostgreSQLCategoryRepository handles category persistence for PostgreSQL
type PostgreSQLCategoryRepository struct {
	db *sql.DB
}

// NewPostgreSQLCategoryRepository creates a new PostgreSQLCategoryRepository
func NewPostgreSQLCategoryRepository(db *sql.DB) *PostgreSQLCategoryRepository {
	return &PostgreSQLCategoryRepository{
		db: db,
	}
}

const postgreSQLCategoryColumns = `id, name, info, banner, sort, created_at, updated_at`

// Create inserts a new category and fills in the generated ID
func (r *PostgreSQLCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO categories (name, info, banner, sort, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx, query,
		category.Name, category.Info, category.Banner, category.Sort,
	).Scan(&category.ID)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrCategoryAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create category")
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *PostgreSQLCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgreSQLCategoryColumns + ` FROM categories WHERE id = $1`

	category, err := scanPostgreSQLCategory(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get category by id")
	}

	return category, nil
}

// List retrieves all categories ordered by sort then ID
func (r *PostgreSQLCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgreSQLCategoryColumns + ` FROM categories ORDER BY sort, id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}
	defer func() { _ = rows.Close() }()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanPostgreSQLCategory(rows)
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
func (r *PostgreSQLCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE categories SET name = $1, info = $2, banner = $3, sort = $4, updated_at = NOW()
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx, query,
		category.Name, category.Info, category.Banner, category.Sort, category.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
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
func (r *PostgreSQLCategoryRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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

func scanPostgreSQLCategory(row rowScanner) (*domain.Category, error) {
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
