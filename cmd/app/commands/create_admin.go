package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/forum/internal/app"
	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/config"
	userUsecase "github.com/allisson/forum/internal/user/usecase"
)

// RunCreateAdmin bootstraps an administrator account. Registration applies
// the usual validation; the fresh account is then moved into the admin role.
func RunCreateAdmin(ctx context.Context, username, password, mobile, email string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	userUseCase, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	user, err := userUseCase.RegisterUser(ctx, userUsecase.RegisterUserInput{
		Username: username,
		Password: password,
		Mobile:   mobile,
		Email:    email,
	})
	if err != nil {
		return fmt.Errorf("failed to register admin user: %w", err)
	}

	if err := userUseCase.UpdateUserRole(ctx, user.ID, authDomain.AdminRoleID); err != nil {
		return fmt.Errorf("failed to promote user to admin: %w", err)
	}

	logger.Info("admin user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}
