package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/allisson/forum/internal/auth/permission"
	"github.com/allisson/forum/internal/database"
	"github.com/allisson/forum/internal/user/domain"

	apperrors "github.com/allisson/forum/internal/errors"
)

// PostgreSQLPermissionRepository handles permission persistence for PostgreSQL
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQLPermissionRepository
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{
		db: db,
	}
}

// Upsert inserts a permission or updates its description if (module, name) exists
func (r *PostgreSQLPermissionRepository) Upsert(ctx context.Context, p *domain.Permission) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO permissions (module, name, info, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  ON CONFLICT (module, name) DO UPDATE SET info = EXCLUDED.info, updated_at = NOW()
			  RETURNING id`

	err := querier.QueryRowContext(ctx, query, p.Module, p.Name, p.Info).Scan(&p.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert permission")
	}
	return nil
}

// List retrieves every permission ordered by module then name
func (r *PostgreSQLPermissionRepository) List(ctx context.Context) ([]*domain.Permission, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, module, name, info, created_at, updated_at
			  FROM permissions ORDER BY module, name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permissions")
	}
	defer func() { _ = rows.Close() }()

	return scanPermissions(rows)
}

// ListByRole retrieves the permissions granted to a role
func (r *PostgreSQLPermissionRepository) ListByRole(ctx context.Context, roleID int64) ([]*domain.Permission, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT p.id, p.module, p.name, p.info, p.created_at, p.updated_at
			  FROM permissions p
			  JOIN role_permissions rp ON rp.permission_id = p.id
			  WHERE rp.role_id = $1
			  ORDER BY p.module, p.name`

	rows, err := querier.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list role permissions")
	}
	defer func() { _ = rows.Close() }()

	return scanPermissions(rows)
}

// ReplaceRoleGrants replaces a role's grants with the given permission set.
// Callers run this inside a transaction so readers never see a half-replaced set.
func (r *PostgreSQLPermissionRepository) ReplaceRoleGrants(ctx context.Context, roleID int64, permissionIDs []int64) error {
	querier := database.GetTx(ctx, r.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return apperrors.Wrap(err, "failed to clear role grants")
	}

	query := `INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES ($1, $2, NOW())`
	for _, permissionID := range permissionIDs {
		if _, err := querier.ExecContext(ctx, query, roleID, permissionID); err != nil {
			if isPostgreSQLForeignKeyViolation(err) {
				return domain.ErrPermissionNotFound
			}
			return apperrors.Wrap(err, "failed to grant permission")
		}
	}

	return nil
}

// ResolveRolePermissions returns the capability descriptors granted to a role.
// This is the storage side of the authorization predicate: the descriptor
// identity is (module, name), matching the declared capability registry.
func (r *PostgreSQLPermissionRepository) ResolveRolePermissions(ctx context.Context, roleID int64) ([]permission.Descriptor, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT p.module, p.name, p.info
			  FROM permissions p
			  JOIN role_permissions rp ON rp.permission_id = p.id
			  WHERE rp.role_id = $1`

	rows, err := querier.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to resolve role permissions")
	}
	defer func() { _ = rows.Close() }()

	descriptors := make([]permission.Descriptor, 0)
	for rows.Next() {
		var d permission.Descriptor
		if err := rows.Scan(&d.Module, &d.Name, &d.Info); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission descriptor")
		}
		descriptors = append(descriptors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission descriptors")
	}

	return descriptors, nil
}

func scanPermissions(rows *sql.Rows) ([]*domain.Permission, error) {
	permissions := make([]*domain.Permission, 0)
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Module, &p.Name, &p.Info, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		permissions = append(permissions, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}
	return permissions, nil
}

// isPostgreSQLForeignKeyViolation checks if the error is a PostgreSQL foreign key violation
func isPostgreSQLForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
