package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	authHTTP "github.com/allisson/forum/internal/auth/http"
	"github.com/allisson/forum/internal/auth/permission"
	apperrors "github.com/allisson/forum/internal/errors"
	noticeDomain "github.com/allisson/forum/internal/notice/domain"
	"github.com/allisson/forum/internal/user/domain"
	"github.com/allisson/forum/internal/user/http/dto"
	userUseCase "github.com/allisson/forum/internal/user/usecase"
)

// MockUserUseCase is a mock implementation of usecase.UseCase.
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) RegisterUser(ctx context.Context, input userUseCase.RegisterUserInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) ValidateCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserUseCase) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserUseCase) UpdateUserRole(ctx context.Context, userID, roleID int64) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *MockUserUseCase) UpdateProfile(ctx context.Context, userID int64, input userUseCase.UpdateProfileInput) (*domain.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockRoleUseCase is a mock implementation of usecase.RoleUseCaseInterface.
type MockRoleUseCase struct {
	mock.Mock
}

func (m *MockRoleUseCase) CreateRole(ctx context.Context, input userUseCase.RoleInput) (*domain.Role, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) GetRoleByID(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) ListRoles(ctx context.Context, offset, limit int) ([]*domain.Role, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) UpdateRole(ctx context.Context, id int64, input userUseCase.RoleInput) (*domain.Role, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) DeleteRole(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleUseCase) DispatchPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	args := m.Called(ctx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *MockRoleUseCase) ListGrantedPermissions(ctx context.Context, roleID int64) ([]*domain.Permission, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Permission), args.Error(1)
}

func (m *MockRoleUseCase) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Permission), args.Error(1)
}

func (m *MockRoleUseCase) SyncPermissions(ctx context.Context, declared []permission.Descriptor) (int, error) {
	args := m.Called(ctx, declared)
	return args.Int(0), args.Error(1)
}

// MockAuditLogUseCase is a mock implementation of the audit log use case.
type MockAuditLogUseCase struct {
	mock.Mock
}

func (m *MockAuditLogUseCase) Create(
	ctx context.Context,
	requestID uuid.UUID,
	user *domain.User,
	path, method, message string,
	metadata map[string]any,
) error {
	args := m.Called(ctx, requestID, user, path, method, message, metadata)
	return args.Error(0)
}

func (m *MockAuditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}

func (m *MockAuditLogUseCase) Verify(log *authDomain.AuditLog) error {
	args := m.Called(log)
	return args.Error(0)
}

// MockNoticeUseCase is a mock implementation of the notice use case.
type MockNoticeUseCase struct {
	mock.Mock
}

func (m *MockNoticeUseCase) CreateNotice(ctx context.Context, userID int64, kind, content string) (*noticeDomain.Notice, error) {
	args := m.Called(ctx, userID, kind, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*noticeDomain.Notice), args.Error(1)
}

func (m *MockNoticeUseCase) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*noticeDomain.Notice, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*noticeDomain.Notice), args.Error(1)
}

func (m *MockNoticeUseCase) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNoticeUseCase) DeliverPending(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockGrantInvalidator is a mock implementation of GrantInvalidator.
type MockGrantInvalidator struct {
	mock.Mock
}

func (m *MockGrantInvalidator) InvalidateRole(ctx context.Context, roleID int64) {
	m.Called(ctx, roleID)
}

// fakeIdentity is a test double for authDomain.Identity.
type fakeIdentity struct {
	subjectID int64
	admin     bool
}

func (f *fakeIdentity) SubjectID() int64 { return f.subjectID }
func (f *fakeIdentity) IsAdmin() bool    { return f.admin }
func (f *fakeIdentity) HasPermission(context.Context, permission.Descriptor) (bool, error) {
	return false, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withIdentity installs an identity cell carrying the given identity,
// standing in for the authentication middleware.
func withIdentity(identity authDomain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := authHTTP.WithIdentityCell(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		if identity != nil {
			authHTTP.SetIdentity(ctx, identity)
		}
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func activeUser(id int64) *domain.User {
	return &domain.User{
		ID:       id,
		Username: "alice",
		Mobile:   "+15550000001",
		RoleID:   domain.DefaultRoleID,
		Status:   domain.UserStatusActive,
	}
}

func TestUserHandler_RegisterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(useCase *MockUserUseCase) *gin.Engine {
		handler := NewUserHandler(useCase, new(MockAuditLogUseCase), testLogger())
		router := gin.New()
		router.POST("/v1/users", handler.RegisterHandler)
		return router
	}

	t.Run("Success", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		input := userUseCase.RegisterUserInput{
			Username: "alice",
			Password: "Str0ngPass",
			Mobile:   "+15550000001",
		}
		useCase.On("RegisterUser", mock.Anything, input).Return(activeUser(1), nil)
		router := setup(useCase)

		recorder := performJSON(router, http.MethodPost, "/v1/users", input)

		require.Equal(t, http.StatusCreated, recorder.Code)
		var response dto.UserResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, int64(1), response.ID)
		assert.Equal(t, "alice", response.Username)
		assert.NotContains(t, recorder.Body.String(), "password")
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		useCase.On("RegisterUser", mock.Anything, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrInvalidInput, "username: the length must be between 2 and 32"))
		router := setup(useCase)

		recorder := performJSON(router, http.MethodPost, "/v1/users", userUseCase.RegisterUserInput{Username: "a"})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("Error_DuplicateUsername", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		useCase.On("RegisterUser", mock.Anything, mock.Anything).Return(nil, domain.ErrUserAlreadyExists)
		router := setup(useCase)

		recorder := performJSON(router, http.MethodPost, "/v1/users", userUseCase.RegisterUserInput{
			Username: "alice", Password: "Str0ngPass", Mobile: "+15550000001",
		})

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestUserHandler_Profile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(useCase *MockUserUseCase, identity authDomain.Identity) *gin.Engine {
		handler := NewUserHandler(useCase, new(MockAuditLogUseCase), testLogger())
		router := gin.New()
		router.Use(withIdentity(identity))
		router.GET("/v1/profile", handler.GetProfileHandler)
		router.PUT("/v1/profile", handler.UpdateProfileHandler)
		return router
	}

	t.Run("Success_Get", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		useCase.On("GetUserByID", mock.Anything, int64(42)).Return(activeUser(42), nil)
		router := setup(useCase, &fakeIdentity{subjectID: 42})

		recorder := performJSON(router, http.MethodGet, "/v1/profile", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response dto.UserResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, int64(42), response.ID)
	})

	t.Run("Error_GetAnonymous", func(t *testing.T) {
		router := setup(new(MockUserUseCase), nil)

		recorder := performJSON(router, http.MethodGet, "/v1/profile", nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Success_Update", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		signature := "hello there"
		input := userUseCase.UpdateProfileInput{Signature: &signature}
		updated := activeUser(42)
		updated.Signature = signature
		useCase.On("UpdateProfile", mock.Anything, int64(42), input).Return(updated, nil)
		router := setup(useCase, &fakeIdentity{subjectID: 42})

		recorder := performJSON(router, http.MethodPut, "/v1/profile", input)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response dto.UserResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, signature, response.Signature)
	})
}

func TestUserHandler_AdminOperations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	admin := &fakeIdentity{subjectID: 1, admin: true}
	adminUser := &domain.User{ID: 1, Username: "root", RoleID: authDomain.AdminRoleID, Status: domain.UserStatusActive}

	setup := func(useCase *MockUserUseCase, audits *MockAuditLogUseCase) *gin.Engine {
		handler := NewUserHandler(useCase, audits, testLogger())
		router := gin.New()
		router.Use(withIdentity(admin))
		router.GET("/v1/admin/users", handler.ListUsersHandler)
		router.DELETE("/v1/admin/users/:id", handler.DeleteUserHandler)
		router.PUT("/v1/admin/users/:id/role", handler.UpdateUserRoleHandler)
		return router
	}

	t.Run("Success_ListUsers", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		useCase.On("ListUsers", mock.Anything, 0, 50).Return([]*domain.User{activeUser(1), activeUser(2)}, nil)
		router := setup(useCase, new(MockAuditLogUseCase))

		recorder := performJSON(router, http.MethodGet, "/v1/admin/users", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response dto.ListUsersResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Len(t, response.Data, 2)
	})

	t.Run("Success_DeleteUserRecordsAudit", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		audits := new(MockAuditLogUseCase)
		useCase.On("DeleteUser", mock.Anything, int64(7)).Return(nil)
		useCase.On("GetUserByID", mock.Anything, int64(1)).Return(adminUser, nil)
		audits.On("Create", mock.Anything, mock.Anything, adminUser,
			"/v1/admin/users/7", http.MethodDelete, "user deleted",
			map[string]any{"user_id": int64(7)}).Return(nil)
		router := setup(useCase, audits)

		recorder := performJSON(router, http.MethodDelete, "/v1/admin/users/7", nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		audits.AssertExpectations(t)
	})

	t.Run("Error_DeleteUserNotFound", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		audits := new(MockAuditLogUseCase)
		useCase.On("DeleteUser", mock.Anything, int64(7)).Return(domain.ErrUserNotFound)
		router := setup(useCase, audits)

		recorder := performJSON(router, http.MethodDelete, "/v1/admin/users/7", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		audits.AssertNotCalled(t, "Create",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_UpdateUserRole", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		audits := new(MockAuditLogUseCase)
		useCase.On("UpdateUserRole", mock.Anything, int64(7), int64(3)).Return(nil)
		useCase.On("GetUserByID", mock.Anything, int64(1)).Return(adminUser, nil)
		audits.On("Create", mock.Anything, mock.Anything, adminUser,
			mock.Anything, http.MethodPut, "user role updated", mock.Anything).Return(nil)
		router := setup(useCase, audits)

		recorder := performJSON(router, http.MethodPut, "/v1/admin/users/7/role",
			dto.UpdateUserRoleRequest{RoleID: 3})

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("Error_UpdateUserRoleMissingRoleID", func(t *testing.T) {
		useCase := new(MockUserUseCase)
		router := setup(useCase, new(MockAuditLogUseCase))

		recorder := performJSON(router, http.MethodPut, "/v1/admin/users/7/role",
			dto.UpdateUserRoleRequest{})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		useCase.AssertNotCalled(t, "UpdateUserRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidIDParam", func(t *testing.T) {
		router := setup(new(MockUserUseCase), new(MockAuditLogUseCase))

		recorder := performJSON(router, http.MethodDelete, "/v1/admin/users/abc", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestRoleHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	admin := &fakeIdentity{subjectID: 1, admin: true}
	adminUser := &domain.User{ID: 1, Username: "root", RoleID: authDomain.AdminRoleID, Status: domain.UserStatusActive}

	setup := func(
		roles *MockRoleUseCase,
		users *MockUserUseCase,
		audits *MockAuditLogUseCase,
		invalidator GrantInvalidator,
	) *gin.Engine {
		handler := NewRoleHandler(roles, users, audits, invalidator, testLogger())
		router := gin.New()
		router.Use(withIdentity(admin))
		router.POST("/v1/admin/roles", handler.CreateRoleHandler)
		router.GET("/v1/admin/roles", handler.ListRolesHandler)
		router.GET("/v1/admin/roles/:id", handler.GetRoleHandler)
		router.DELETE("/v1/admin/roles/:id", handler.DeleteRoleHandler)
		router.PUT("/v1/admin/roles/:id/permissions", handler.DispatchPermissionsHandler)
		router.GET("/v1/admin/permissions/stored", handler.ListStoredPermissionsHandler)
		return router
	}

	t.Run("Success_CreateRole", func(t *testing.T) {
		roles := new(MockRoleUseCase)
		users := new(MockUserUseCase)
		audits := new(MockAuditLogUseCase)
		input := userUseCase.RoleInput{Name: "moderators", Info: "forum moderators"}
		roles.On("CreateRole", mock.Anything, input).Return(&domain.Role{ID: 3, Name: "moderators"}, nil)
		users.On("GetUserByID", mock.Anything, int64(1)).Return(adminUser, nil)
		audits.On("Create", mock.Anything, mock.Anything, adminUser,
			mock.Anything, http.MethodPost, "role created", mock.Anything).Return(nil)
		router := setup(roles, users, audits, nil)

		recorder := performJSON(router, http.MethodPost, "/v1/admin/roles", input)

		require.Equal(t, http.StatusCreated, recorder.Code)
		audits.AssertExpectations(t)
	})

	t.Run("Success_GetRoleWithPermissions", func(t *testing.T) {
		roles := new(MockRoleUseCase)
		roles.On("GetRoleByID", mock.Anything, int64(3)).Return(&domain.Role{ID: 3, Name: "moderators"}, nil)
		roles.On("ListGrantedPermissions", mock.Anything, int64(3)).Return([]*domain.Permission{
			{ID: 10, Module: "post", Name: "delete"},
		}, nil)
		router := setup(roles, new(MockUserUseCase), new(MockAuditLogUseCase), nil)

		recorder := performJSON(router, http.MethodGet, "/v1/admin/roles/3", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response dto.RoleWithPermissionsResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "moderators", response.Role.Name)
		require.Len(t, response.Permissions, 1)
		assert.Equal(t, int64(10), response.Permissions[0].ID)
	})

	t.Run("Error_DeleteRoleWithMembers", func(t *testing.T) {
		roles := new(MockRoleUseCase)
		roles.On("DeleteRole", mock.Anything, int64(3)).Return(domain.ErrRoleInUse)
		router := setup(roles, new(MockUserUseCase), new(MockAuditLogUseCase), nil)

		recorder := performJSON(router, http.MethodDelete, "/v1/admin/roles/3", nil)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("Success_DispatchPermissionsInvalidatesCache", func(t *testing.T) {
		roles := new(MockRoleUseCase)
		users := new(MockUserUseCase)
		audits := new(MockAuditLogUseCase)
		invalidator := new(MockGrantInvalidator)
		roles.On("DispatchPermissions", mock.Anything, int64(3), []int64{10, 11}).Return(nil)
		invalidator.On("InvalidateRole", mock.Anything, int64(3)).Return()
		users.On("GetUserByID", mock.Anything, int64(1)).Return(adminUser, nil)
		audits.On("Create", mock.Anything, mock.Anything, adminUser,
			mock.Anything, http.MethodPut, "role permissions dispatched", mock.Anything).Return(nil)
		router := setup(roles, users, audits, invalidator)

		recorder := performJSON(router, http.MethodPut, "/v1/admin/roles/3/permissions",
			dto.DispatchPermissionsRequest{PermissionIDs: []int64{10, 11}})

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		invalidator.AssertExpectations(t)
	})

	t.Run("Error_DispatchUnknownPermission", func(t *testing.T) {
		roles := new(MockRoleUseCase)
		roles.On("DispatchPermissions", mock.Anything, int64(3), []int64{999}).
			Return(domain.ErrPermissionNotFound)
		router := setup(roles, new(MockUserUseCase), new(MockAuditLogUseCase), nil)

		recorder := performJSON(router, http.MethodPut, "/v1/admin/roles/3/permissions",
			dto.DispatchPermissionsRequest{PermissionIDs: []int64{999}})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Success_ListStoredPermissions", func(t *testing.T) {
		roles := new(MockRoleUseCase)
		roles.On("ListPermissions", mock.Anything).Return([]*domain.Permission{
			{ID: 10, Module: "post", Name: "delete", Info: "Delete any post"},
		}, nil)
		router := setup(roles, new(MockUserUseCase), new(MockAuditLogUseCase), nil)

		recorder := performJSON(router, http.MethodGet, "/v1/admin/permissions/stored", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response dto.ListPermissionsResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
	})
}

func TestNoticeHandler_ListNoticesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(useCase *MockNoticeUseCase, identity authDomain.Identity) *gin.Engine {
		handler := NewNoticeHandler(useCase, testLogger())
		router := gin.New()
		router.Use(withIdentity(identity))
		router.GET("/v1/notices", handler.ListNoticesHandler)
		router.POST("/v1/notices", handler.CreateNoticeHandler)
		return router
	}

	t.Run("Success", func(t *testing.T) {
		useCase := new(MockNoticeUseCase)
		notices := []*noticeDomain.Notice{
			{
				ID:      uuid.Must(uuid.NewV7()),
				UserID:  42,
				Kind:    "user.welcome",
				Content: "welcome aboard",
				Status:  noticeDomain.NoticeStatusDelivered,
			},
		}
		useCase.On("ListByUser", mock.Anything, int64(42), 0, 50).Return(notices, nil)
		router := setup(useCase, &fakeIdentity{subjectID: 42})

		recorder := performJSON(router, http.MethodGet, "/v1/notices", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response dto.ListNoticesResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "user.welcome", response.Data[0].Kind)
	})

	t.Run("Error_Anonymous", func(t *testing.T) {
		router := setup(new(MockNoticeUseCase), nil)

		recorder := performJSON(router, http.MethodGet, "/v1/notices", nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Success_Create", func(t *testing.T) {
		useCase := new(MockNoticeUseCase)
		created := &noticeDomain.Notice{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  7,
			Kind:    "mod.warning",
			Content: "please review the rules",
			Status:  noticeDomain.NoticeStatusPending,
		}
		useCase.On("CreateNotice", mock.Anything, int64(7), "mod.warning", "please review the rules").
			Return(created, nil)
		router := setup(useCase, &fakeIdentity{subjectID: 1, admin: true})

		recorder := performJSON(router, http.MethodPost, "/v1/notices", dto.CreateNoticeRequest{
			UserID:  7,
			Kind:    "mod.warning",
			Content: "please review the rules",
		})

		require.Equal(t, http.StatusCreated, recorder.Code)
		var response dto.NoticeResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "pending", response.Status)
	})

	t.Run("Error_CreateMissingContent", func(t *testing.T) {
		useCase := new(MockNoticeUseCase)
		router := setup(useCase, &fakeIdentity{subjectID: 1, admin: true})

		recorder := performJSON(router, http.MethodPost, "/v1/notices", dto.CreateNoticeRequest{
			UserID: 7,
			Kind:   "mod.warning",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		useCase.AssertNotCalled(t, "CreateNotice",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
