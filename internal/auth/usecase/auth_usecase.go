// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
	authService "github.com/allisson/forum/internal/auth/service"
	apperrors "github.com/allisson/forum/internal/errors"
	userDomain "github.com/allisson/forum/internal/user/domain"
)

// authUseCase implements AuthUseCase on top of the token service and the user module.
type authUseCase struct {
	tokenService authService.TokenService
	userProvider UserProvider
	resolver     authDomain.PermissionResolver
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	tokenService authService.TokenService,
	userProvider UserProvider,
	resolver authDomain.PermissionResolver,
) AuthUseCase {
	return &authUseCase{
		tokenService: tokenService,
		userProvider: userProvider,
		resolver:     resolver,
	}
}

// Authenticate exchanges a username/password pair for a signed bearer token.
func (a *authUseCase) Authenticate(
	ctx context.Context,
	username, password string,
) (string, *userDomain.User, error) {
	user, err := a.userProvider.ValidateCredentials(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := a.tokenService.Issue(user.ID)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to issue token")
	}

	return token, user, nil
}

// Identify resolves a verified subject ID into an Identity.
func (a *authUseCase) Identify(ctx context.Context, subjectID int64) (authDomain.Identity, error) {
	user, err := a.userProvider.GetUserByID(ctx, subjectID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrSubjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve subject")
	}

	return &identity{user: user, resolver: a.resolver}, nil
}

// VerifyToken checks a bearer token and returns the subject ID it asserts.
func (a *authUseCase) VerifyToken(token string) (int64, error) {
	return a.tokenService.Verify(token)
}

// identity is the per-request implementation of authDomain.Identity.
// It wraps the resolved user and defers capability lookups to the permission
// resolver; it holds no state beyond the request that created it.
type identity struct {
	user     *userDomain.User
	resolver authDomain.PermissionResolver
}

func (i *identity) SubjectID() int64 {
	return i.user.ID
}

func (i *identity) IsAdmin() bool {
	return i.user.RoleID == authDomain.AdminRoleID
}

// HasPermission reports whether the subject's role grants the capability.
// Admins short-circuit to true without touching storage.
func (i *identity) HasPermission(ctx context.Context, descriptor permission.Descriptor) (bool, error) {
	if i.IsAdmin() {
		return true, nil
	}

	grants, err := i.resolver.ResolveRolePermissions(ctx, i.user.RoleID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to resolve role permissions")
	}

	for _, granted := range grants {
		// Capability identity is (module, name); Info never participates.
		if granted.Module == descriptor.Module && granted.Name == descriptor.Name {
			return true, nil
		}
	}

	return false, nil
}
