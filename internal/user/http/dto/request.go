// Package dto provides data transfer objects for user HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// UpdateUserRoleRequest contains the target role for a user.
type UpdateUserRoleRequest struct {
	RoleID int64 `json:"role_id"`
}

// Validate checks if the update user role request is valid.
func (r *UpdateUserRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RoleID, validation.Required, validation.Min(int64(1))),
	)
}

// CreateNoticeRequest contains an announcement addressed to a single user.
type CreateNoticeRequest struct {
	UserID  int64  `json:"user_id"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Validate checks if the create notice request is valid.
func (r *CreateNoticeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Kind, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Content, validation.Required, validation.Length(1, 2000)),
	)
}

// DispatchPermissionsRequest contains the full grant set for a role.
// An empty list withdraws every grant.
type DispatchPermissionsRequest struct {
	PermissionIDs []int64 `json:"permission_ids"`
}

// Validate checks if the dispatch permissions request is valid.
func (r *DispatchPermissionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PermissionIDs,
			validation.NotNil,
			validation.Each(validation.Min(int64(1))),
		),
	)
}
