package main

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/study_planner/internal/app"
	"github.com/Freeeeeet/study_planner/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|status]",
	Short: "Apply database migrations or show their status",
	Long: `Manage the database schema.

Examples:
  # Apply all pending migrations
  planner migrate up

  # Show applied and pending migrations
  planner migrate status
`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "status"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	defer logger.Sync()

	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	ctx := context.Background()
	pool, err := app.ConnectDB(ctx, cfg.DBDSN, cfg.DBConnectRetries, cfg.DBRetryDelay, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, ".", logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch action {
	case "up":
		return migrator.Run(ctx)
	case "status":
		if err := migrator.Status(ctx); err != nil {
			return err
		}
		version, err := migrator.Version(ctx)
		if err != nil {
			return err
		}
		logger.Info("Current schema version", zap.Int64("version", version))
		return nil
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
}
