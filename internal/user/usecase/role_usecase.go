package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/user/domain"
	appValidation "github.com/allisson/forum/internal/validation"
)

// RoleInput contains the input data for role creation and update
type RoleInput struct {
	Name string `json:"name"`
	Info string `json:"info"`
}

// RoleUseCaseInterface defines the interface for role business logic operations
type RoleUseCaseInterface interface {
	CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error)
	GetRoleByID(ctx context.Context, id int64) (*domain.Role, error)
	ListRoles(ctx context.Context, offset, limit int) ([]*domain.Role, error)
	UpdateRole(ctx context.Context, id int64, input RoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, id int64) error
	DispatchPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	ListGrantedPermissions(ctx context.Context, roleID int64) ([]*domain.Permission, error)
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
	SyncPermissions(ctx context.Context, declared []permission.Descriptor) (int, error)
}

// RoleRepository interface defines role repository operations
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id int64) error
	CountMembers(ctx context.Context, roleID int64) (int64, error)
}

// PermissionRepository interface defines permission repository operations
type PermissionRepository interface {
	Upsert(ctx context.Context, p *domain.Permission) error
	List(ctx context.Context) ([]*domain.Permission, error)
	ListByRole(ctx context.Context, roleID int64) ([]*domain.Permission, error)
	ReplaceRoleGrants(ctx context.Context, roleID int64, permissionIDs []int64) error
	ResolveRolePermissions(ctx context.Context, roleID int64) ([]permission.Descriptor, error)
}

// RoleUseCase handles role and permission business logic
type RoleUseCase struct {
	txManager      database.TxManager
	roleRepo       RoleRepository
	permissionRepo PermissionRepository
}

// NewRoleUseCase creates a new RoleUseCase
func NewRoleUseCase(
	txManager database.TxManager,
	roleRepo RoleRepository,
	permissionRepo PermissionRepository,
) *RoleUseCase {
	return &RoleUseCase{
		txManager:      txManager,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

func (uc *RoleUseCase) validateRoleInput(input RoleInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 64).Error("name must be between 1 and 64 characters"),
		),
		validation.Field(&input.Info,
			validation.Length(0, 255).Error("info must be at most 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateRole creates a new role
func (uc *RoleUseCase) CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error) {
	if err := uc.validateRoleInput(input); err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name: strings.TrimSpace(input.Name),
		Info: strings.TrimSpace(input.Info),
	}
	if err := uc.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// GetRoleByID retrieves a role by ID
func (uc *RoleUseCase) GetRoleByID(ctx context.Context, id int64) (*domain.Role, error) {
	return uc.roleRepo.GetByID(ctx, id)
}

// ListRoles retrieves roles ordered by ID with pagination
func (uc *RoleUseCase) ListRoles(ctx context.Context, offset, limit int) ([]*domain.Role, error) {
	roles, err := uc.roleRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	return roles, nil
}

// UpdateRole updates a role's name and info
func (uc *RoleUseCase) UpdateRole(ctx context.Context, id int64, input RoleInput) (*domain.Role, error) {
	if err := uc.validateRoleInput(input); err != nil {
		return nil, err
	}

	role, err := uc.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Name = strings.TrimSpace(input.Name)
	role.Info = strings.TrimSpace(input.Info)
	if err := uc.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// DeleteRole removes a role. The admin role and roles with members cannot be deleted.
func (uc *RoleUseCase) DeleteRole(ctx context.Context, id int64) error {
	if id == authDomain.AdminRoleID {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "the admin role cannot be deleted")
	}

	members, err := uc.roleRepo.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if members > 0 {
		return domain.ErrRoleInUse
	}

	return uc.roleRepo.Delete(ctx, id)
}

// DispatchPermissions replaces a role's grants with the given permission set.
// The replacement is transactional: readers never observe a partially
// dispatched role.
func (uc *RoleUseCase) DispatchPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if _, err := uc.roleRepo.GetByID(ctx, roleID); err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.permissionRepo.ReplaceRoleGrants(ctx, roleID, permissionIDs)
	})
}

// ListGrantedPermissions retrieves the permissions granted to a role
func (uc *RoleUseCase) ListGrantedPermissions(ctx context.Context, roleID int64) ([]*domain.Permission, error) {
	if _, err := uc.roleRepo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	return uc.permissionRepo.ListByRole(ctx, roleID)
}

// ListPermissions retrieves every persisted permission
func (uc *RoleUseCase) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return uc.permissionRepo.List(ctx)
}

// SyncPermissions reconciles the permissions table against the declared
// capability set. New declarations are inserted and changed descriptions
// updated; rows for withdrawn capabilities are kept so existing grants
// survive a temporary removal. Returns the number of processed descriptors.
func (uc *RoleUseCase) SyncPermissions(ctx context.Context, declared []permission.Descriptor) (int, error) {
	count := 0
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, d := range declared {
			p := &domain.Permission{
				Module: d.Module,
				Name:   d.Name,
				Info:   d.Info,
			}
			if err := uc.permissionRepo.Upsert(ctx, p); err != nil {
				return apperrors.Wrapf(err, "failed to sync permission %s.%s", d.Module, d.Name)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
