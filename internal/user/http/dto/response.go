package dto

import (
	"time"

	noticeDomain "github.com/allisson/forum/internal/notice/domain"
	"github.com/allisson/forum/internal/user/domain"
)

// UserResponse represents a user in API responses.
// SECURITY: The password hash is never exposed.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"role_id"`
	Signature string    `json:"signature"`
	Avatar    string    `json:"avatar"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Mobile:    user.Mobile,
		Email:     user.Email,
		RoleID:    user.RoleID,
		Signature: user.Signature,
		Avatar:    user.Avatar,
		Status:    int(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ListUsersResponse represents a paginated list of users.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MapUsersToListResponse converts domain users to a list API response.
func MapUsersToListResponse(users []*domain.User) ListUsersResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, MapUserToResponse(user))
	}
	return ListUsersResponse{
		Data: responses,
	}
}

// RoleResponse represents a role in API responses.
type RoleResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Info      string    `json:"info"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapRoleToResponse converts a domain role to an API response.
func MapRoleToResponse(role *domain.Role) RoleResponse {
	return RoleResponse{
		ID:        role.ID,
		Name:      role.Name,
		Info:      role.Info,
		CreatedAt: role.CreatedAt,
		UpdatedAt: role.UpdatedAt,
	}
}

// ListRolesResponse represents a paginated list of roles.
type ListRolesResponse struct {
	Data []RoleResponse `json:"data"`
}

// MapRolesToListResponse converts domain roles to a list API response.
func MapRolesToListResponse(roles []*domain.Role) ListRolesResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, MapRoleToResponse(role))
	}
	return ListRolesResponse{
		Data: responses,
	}
}

// PermissionResponse represents a stored permission in API responses.
// The ID is what grant dispatch requests reference.
type PermissionResponse struct {
	ID     int64  `json:"id"`
	Module string `json:"module"`
	Name   string `json:"name"`
	Info   string `json:"info"`
}

// MapPermissionToResponse converts a domain permission to an API response.
func MapPermissionToResponse(p *domain.Permission) PermissionResponse {
	return PermissionResponse{
		ID:     p.ID,
		Module: p.Module,
		Name:   p.Name,
		Info:   p.Info,
	}
}

// ListPermissionsResponse represents a list of stored permissions.
type ListPermissionsResponse struct {
	Data []PermissionResponse `json:"data"`
}

// MapPermissionsToListResponse converts domain permissions to a list API response.
func MapPermissionsToListResponse(permissions []*domain.Permission) ListPermissionsResponse {
	responses := make([]PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		responses = append(responses, MapPermissionToResponse(p))
	}
	return ListPermissionsResponse{
		Data: responses,
	}
}

// RoleWithPermissionsResponse represents a role together with its grants.
type RoleWithPermissionsResponse struct {
	Role        RoleResponse         `json:"role"`
	Permissions []PermissionResponse `json:"permissions"`
}

// NoticeResponse represents a notice in API responses.
type NoticeResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MapNoticeToResponse converts a domain notice to an API response.
func MapNoticeToResponse(notice *noticeDomain.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        notice.ID.String(),
		Kind:      notice.Kind,
		Content:   notice.Content,
		Status:    string(notice.Status),
		CreatedAt: notice.CreatedAt,
	}
}

// ListNoticesResponse represents a paginated list of notices.
type ListNoticesResponse struct {
	Data []NoticeResponse `json:"data"`
}

// MapNoticesToListResponse converts domain notices to a list API response.
func MapNoticesToListResponse(notices []*noticeDomain.Notice) ListNoticesResponse {
	responses := make([]NoticeResponse, 0, len(notices))
	for _, notice := range notices {
		responses = append(responses, MapNoticeToResponse(notice))
	}
	return ListNoticesResponse{
		Data: responses,
	}
}
