// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"

	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	noticeDomain "github.com/allisson/forum/internal/notice/domain"
	"github.com/allisson/forum/internal/user/domain"
	appValidation "github.com/allisson/forum/internal/validation"
)

// RegisterUserInput contains the input data for user registration
type RegisterUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
}

// UpdateProfileInput contains the profile fields a user may change.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	Signature *string `json:"signature"`
	Avatar    *string `json:"avatar"`
	Email     *string `json:"email"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ValidateCredentials(ctx context.Context, username, password string) (*domain.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateUserRole(ctx context.Context, userID, roleID int64) error
	UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
	UpdateRole(ctx context.Context, userID, roleID int64) error
	Update(ctx context.Context, user *domain.User) error
}

// NoticeRepository interface defines the notice operations the user module needs.
// The welcome notice is written in the registration transaction so a user is
// never created without one.
type NoticeRepository interface {
	Create(ctx context.Context, notice *noticeDomain.Notice) error
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	roleRepo       RoleRepository
	noticeRepo     NoticeRepository
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	roleRepo RoleRepository,
	noticeRepo NoticeRepository,
) (*UserUseCase, error) {
	// Interactive policy: user-facing login latency matters more than
	// resistance to offline attacks on a stolen database dump.
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &UserUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		noticeRepo:     noticeRepo,
		passwordHasher: hasher,
	}, nil
}

// validateRegisterUserInput validates the registration input using jellydator/validation
func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			appValidation.NoWhitespace,
			validation.Length(2, 32).Error("username must be between 2 and 32 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
		validation.Field(&input.Mobile,
			validation.Required.Error("mobile is required"),
			appValidation.Mobile,
		),
		validation.Field(&input.Email,
			validation.When(input.Email != "", appValidation.Email),
		),
	)
	return appValidation.WrapValidationError(err)
}

// RegisterUser registers a new user with the default role and queues a welcome notice.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		Username: strings.TrimSpace(input.Username),
		Mobile:   strings.TrimSpace(input.Mobile),
		Email:    strings.TrimSpace(strings.ToLower(input.Email)),
		Password: hashedPassword,
		RoleID:   domain.DefaultRoleID,
		Status:   domain.UserStatusActive,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		notice := &noticeDomain.Notice{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  user.ID,
			Kind:    "user.welcome",
			Content: "Welcome to the forum, " + user.Username + "!",
			Status:  noticeDomain.NoticeStatusPending,
		}
		if err := uc.noticeRepo.Create(ctx, notice); err != nil {
			return apperrors.Wrap(err, "failed to create welcome notice")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (uc *UserUseCase) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

// ValidateCredentials checks a username/password pair and returns the user on success.
// A missing user and a wrong password both map to ErrInvalidCredentials so
// callers cannot probe which usernames exist. A banned user fails even with
// the correct password.
func (uc *UserUseCase) ValidateCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.passwordHasher.Verify([]byte(password), user.Password)
	if err != nil || !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == domain.UserStatusBanned {
		return nil, domain.ErrUserBanned
	}

	return user, nil
}

// ListUsers retrieves users ordered by ID with pagination
func (uc *UserUseCase) ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	users, err := uc.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	return users, nil
}

// DeleteUser removes a user. Outstanding tokens for the deleted subject remain
// valid until expiry; request identification resolves them to anonymous.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id int64) error {
	return uc.userRepo.Delete(ctx, id)
}

// UpdateUserRole moves a user to another role. The role must exist.
func (uc *UserUseCase) UpdateUserRole(ctx context.Context, userID, roleID int64) error {
	if _, err := uc.roleRepo.GetByID(ctx, roleID); err != nil {
		return err
	}
	return uc.userRepo.UpdateRole(ctx, userID, roleID)
}

// UpdateProfile applies the non-nil profile fields and returns the updated user.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error) {
	if input.Email != nil && *input.Email != "" {
		if err := appValidation.Email.Validate(*input.Email); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Signature != nil {
		user.Signature = *input.Signature
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
