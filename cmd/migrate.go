package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/task-tracker/db"
	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/database"
	"github.com/frahmantamala/task-tracker/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
		Long: `Runs the goose SQL migrations against postgres. They are embedded in the binary
unless --dir points at a directory on disk. sqlite and mysql databases are migrated from the gorm models.`,
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory on disk (default: embedded db/migrations)")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := setup()
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	if cfg.Database.Driver != internal.DriverPostgres {
		if migrateRollback {
			return fmt.Errorf("rollback is only supported for %s", internal.DriverPostgres)
		}
		conn, err := database.Open(cfg.Database, lg)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := database.AutoMigrate(ctx, conn.Gorm); err != nil {
			return err
		}
		lg.Info("schema migrated from models", "driver", cfg.Database.Driver)
		return nil
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	goose.SetTableName("schema_migrations")
	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, sqlDB, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	lg.Info("migrations applied", "command", command, "dir", dir)
	return nil
}
