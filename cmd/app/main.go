// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/forum/cmd/app/commands"
	"github.com/allisson/forum/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Forum identity and authorization service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server, metrics server, and notice worker",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
					return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "sync-permissions",
				Usage: "Upsert every declared capability into the permissions table",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSyncPermissions(ctx)
				},
			},
			{
				Name:  "create-admin",
				Usage: "Bootstrap an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Username for the admin account",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password for the admin account",
					},
					&cli.StringFlag{
						Name:     "mobile",
						Aliases:  []string{"m"},
						Required: true,
						Usage:    "Mobile number for the admin account",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Email address for the admin account",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateAdmin(
						ctx,
						cmd.String("username"),
						cmd.String("password"),
						cmd.String("mobile"),
						cmd.String("email"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
