package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/forum/internal/app"
	"github.com/allisson/forum/internal/config"
	forumHTTP "github.com/allisson/forum/internal/http"
)

// RunSyncPermissions upserts every declared capability into the permissions
// table. Runs at deploy time, after migrations and before the new server
// version starts, so grant dispatch can reference any capability the router
// guards.
func RunSyncPermissions(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	registry := container.PermissionRegistry()
	forumHTTP.DeclareCapabilities(registry)

	roleUseCase, err := container.RoleUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize role use case: %w", err)
	}

	synced, err := roleUseCase.SyncPermissions(ctx, registry.List())
	if err != nil {
		return fmt.Errorf("failed to sync permissions: %w", err)
	}

	logger.Info("permissions synced",
		slog.Int("declared", registry.Len()),
		slog.Int("synced", synced),
	)

	return nil
}
