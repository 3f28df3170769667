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

// MySQLPermissionRepository handles permission persistence for MySQL
type MySQLPermissionRepository struct {
	db *sql.DB
}

// NewMySQLPermissionRepository creates a new MySQLPermissionRepository
func NewMySQLPermissionRepository(db *sql.DB) *MySQLPermissionRepository {
	return &MySQLPermissionRepository{
		db: db,
	}
}

// Upsert inserts a permission or updates its description if (module, name) exists
func (r *MySQLPermissionRepository) Upsert(ctx context.Context, p *domain.Permission) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO permissions (module, name, info, created_at, updated_at)
			  VALUES (?, ?, ?, NOW(), NOW())
			  ON DUPLICATE KEY UPDATE info = VALUES(info), updated_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, p.Module, p.Name, p.Info); err != nil {
		return apperrors.Wrap(err, "failed to upsert permission")
	}

	// MySQL's upsert does not return the row id on update, read it back.
	err := querier.QueryRowContext(
		ctx, `SELECT id FROM permissions WHERE module = ? AND name = ?`, p.Module, p.Name,
	).Scan(&p.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to read upserted permission id")
	}

	return nil
}

// List retrieves every permission ordered by module then name
func (r *MySQLPermissionRepository) List(ctx context.Context) ([]*domain.Permission, error) {
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
func (r *MySQLPermissionRepository) ListByRole(ctx context.Context, roleID int64) ([]*domain.Permission, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT p.id, p.module, p.name, p.info, p.created_at, p.updated_at
			  FROM permissions p
			  JOIN role_permissions rp ON rp.permission_id = p.id
			  WHERE rp.role_id = ?
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
func (r *MySQLPermissionRepository) ReplaceRoleGrants(ctx context.Context, roleID int64, permissionIDs []int64) error {
	querier := database.GetTx(ctx, r.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = ?`, roleID); err != nil {
		return apperrors.Wrap(err, "failed to clear role grants")
	}

	query := `INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, NOW())`
	for _, permissionID := range permissionIDs {
		if _, err := querier.ExecContext(ctx, query, roleID, permissionID); err != nil {
			if isMySQLForeignKeyViolation(err) {
				return domain.ErrPermissionNotFound
			}
			return apperrors.Wrap(err, "failed to grant permission")
		}
	}

	return nil
}

// ResolveRolePermissions returns the capability descriptors granted to a role.
func (r *MySQLPermissionRepository) ResolveRolePermissions(ctx context.Context, roleID int64) ([]permission.Descriptor, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT p.module, p.name, p.info
			  FROM permissions p
			  JOIN role_permissions rp ON rp.permission_id = p.id
			  WHERE rp.role_id = ?`

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

// isMySQLForeignKeyViolation checks if the error is a MySQL foreign key violation
func isMySQLForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1452: Cannot add or update a child row: a foreign key constraint fails"
	return strings.Contains(errMsg, "foreign key") || strings.Contains(errMsg, "error 1452")
}
