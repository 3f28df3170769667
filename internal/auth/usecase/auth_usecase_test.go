package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
	apperrors "github.com/allisson/forum/internal/errors"
	userDomain "github.com/allisson/forum/internal/user/domain"
)

// MockTokenService is a mock implementation of service.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subjectID int64) (string, error) {
	args := m.Called(subjectID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserProvider is a mock implementation of UserProvider
type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) GetUserByID(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserProvider) ValidateCredentials(
	ctx context.Context,
	username, password string,
) (*userDomain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// MockPermissionResolver is a mock implementation of domain.PermissionResolver
type MockPermissionResolver struct {
	mock.Mock
}

func (m *MockPermissionResolver) ResolveRolePermissions(
	ctx context.Context,
	roleID int64,
) ([]permission.Descriptor, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permission.Descriptor), args.Error(1)
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: 42, Username: "alice", RoleID: userDomain.DefaultRoleID}

	t.Run("Success", func(t *testing.T) {
		tokenService := &MockTokenService{}
		userProvider := &MockUserProvider{}
		useCase := NewAuthUseCase(tokenService, userProvider, &MockPermissionResolver{})

		userProvider.On("ValidateCredentials", ctx, "alice", "Sup3rSecret").Return(user, nil)
		tokenService.On("Issue", int64(42)).Return("signed-token", nil)

		token, authenticated, err := useCase.Authenticate(ctx, "alice", "Sup3rSecret")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
		assert.Equal(t, int64(42), authenticated.ID)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		tokenService := &MockTokenService{}
		userProvider := &MockUserProvider{}
		useCase := NewAuthUseCase(tokenService, userProvider, &MockPermissionResolver{})

		userProvider.On("ValidateCredentials", ctx, "alice", "wrong").
			Return(nil, apperrors.ErrInvalidCredentials)

		token, authenticated, err := useCase.Authenticate(ctx, "alice", "wrong")
		assert.Empty(t, token)
		assert.Nil(t, authenticated)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		tokenService.AssertNotCalled(t, "Issue", int64(42))
	})
}

func TestAuthUseCase_Identify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userProvider := &MockUserProvider{}
		useCase := NewAuthUseCase(&MockTokenService{}, userProvider, &MockPermissionResolver{})

		user := &userDomain.User{ID: 42, Username: "alice", RoleID: userDomain.DefaultRoleID}
		userProvider.On("GetUserByID", ctx, int64(42)).Return(user, nil)

		id, err := useCase.Identify(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id.SubjectID())
		assert.False(t, id.IsAdmin())
	})

	t.Run("Error_DeletedSubject", func(t *testing.T) {
		userProvider := &MockUserProvider{}
		useCase := NewAuthUseCase(&MockTokenService{}, userProvider, &MockPermissionResolver{})

		userProvider.On("GetUserByID", ctx, int64(42)).Return(nil, userDomain.ErrUserNotFound)

		id, err := useCase.Identify(ctx, 42)
		assert.Nil(t, id)
		assert.ErrorIs(t, err, authDomain.ErrSubjectNotFound)
	})
}

func TestIdentity_HasPermission(t *testing.T) {
	ctx := context.Background()
	descriptor := permission.Descriptor{Module: "post", Name: "delete"}

	t.Run("Success_AdminShortCircuits", func(t *testing.T) {
		resolver := &MockPermissionResolver{}
		admin := &identity{
			user:     &userDomain.User{ID: 1, RoleID: authDomain.AdminRoleID},
			resolver: resolver,
		}

		allowed, err := admin.HasPermission(ctx, descriptor)
		require.NoError(t, err)
		assert.True(t, allowed)
		// Admins never touch storage
		resolver.AssertNotCalled(t, "ResolveRolePermissions", ctx, authDomain.AdminRoleID)
	})

	t.Run("Success_GrantedCapability", func(t *testing.T) {
		resolver := &MockPermissionResolver{}
		member := &identity{
			user:     &userDomain.User{ID: 42, RoleID: 3},
			resolver: resolver,
		}

		resolver.On("ResolveRolePermissions", ctx, int64(3)).Return([]permission.Descriptor{
			{Module: "post", Name: "create"},
			{Module: "post", Name: "delete", Info: "a different description"},
		}, nil)

		// Info differences never affect the match
		allowed, err := member.HasPermission(ctx, descriptor)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Success_MissingCapability", func(t *testing.T) {
		resolver := &MockPermissionResolver{}
		member := &identity{
			user:     &userDomain.User{ID: 42, RoleID: 3},
			resolver: resolver,
		}

		resolver.On("ResolveRolePermissions", ctx, int64(3)).Return([]permission.Descriptor{
			{Module: "post", Name: "create"},
		}, nil)

		allowed, err := member.HasPermission(ctx, descriptor)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("Success_SameNameDifferentModule", func(t *testing.T) {
		resolver := &MockPermissionResolver{}
		member := &identity{
			user:     &userDomain.User{ID: 42, RoleID: 3},
			resolver: resolver,
		}

		resolver.On("ResolveRolePermissions", ctx, int64(3)).Return([]permission.Descriptor{
			{Module: "comment", Name: "delete"},
		}, nil)

		allowed, err := member.HasPermission(ctx, descriptor)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("Error_ResolverFailure", func(t *testing.T) {
		resolver := &MockPermissionResolver{}
		member := &identity{
			user:     &userDomain.User{ID: 42, RoleID: 3},
			resolver: resolver,
		}

		resolver.On("ResolveRolePermissions", ctx, int64(3)).
			Return(nil, apperrors.New("storage unavailable"))

		allowed, err := member.HasPermission(ctx, descriptor)
		assert.False(t, allowed)
		assert.Error(t, err)
	})
}
