package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/forum/internal/database"
	"github.com/allisson/forum/internal/user/domain"

	apperrors "github.com/allisson/forum/internal/errors"
)

// MySQLRoleRepository handles role persistence for MySQL
type MySQLRoleRepository struct {
	db *sql.DB
}

// NewMySQLRoleRepository creates a new MySQLRoleRepository
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{
		db: db,
	}
}

// Create inserts a new role and fills in the generated ID
func (r *MySQLRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO roles (name, info, created_at, updated_at) VALUES (?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query, role.Name, role.Info)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrRoleAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create role")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted role id")
	}
	role.ID = id

	return nil
}

// GetByID retrieves a role by ID
func (r *MySQLRoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, info, created_at, updated_at FROM roles WHERE id = ?`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&role.ID, &role.Name, &role.Info, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role by id")
	}

	return &role, nil
}

// List retrieves roles ordered by ID with pagination
func (r *MySQLRoleRepository) List(ctx context.Context, offset, limit int) ([]*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, info, created_at, updated_at FROM roles ORDER BY id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	defer func() { _ = rows.Close() }()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Info, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	return roles, nil
}

// Update persists a role's name and info
func (r *MySQLRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE roles SET name = ?, info = ?, updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, role.Name, role.Info, role.ID)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrRoleAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update role")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrRoleNotFound
	}

	return nil
}

// Delete removes a role and its grants
func (r *MySQLRoleRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete role")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrRoleNotFound
	}

	return nil
}

// CountMembers returns the number of users assigned to the role
func (r *MySQLRoleRepository) CountMembers(ctx context.Context, roleID int64) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role_id = ?`, roleID).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count role members")
	}

	return count, nil
}
