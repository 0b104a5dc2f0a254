package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/auth"
	"github.com/frahmantamala/task-tracker/internal/cache"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/database"
	"github.com/frahmantamala/task-tracker/internal/task"
	taskPostgres "github.com/frahmantamala/task-tracker/internal/task/postgres"
	"github.com/frahmantamala/task-tracker/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var demoUser bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with reference data",
	Long: `Inserts the task statuses, priorities, complexities, departments and positions.
Existing rows are kept. --clear wipes every table first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := setup()
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		conn, err := database.Open(cfg.Database, lg)
		if err != nil {
			return err
		}
		defer conn.Close()

		if clearData {
			if err := database.Clear(ctx, conn.Gorm); err != nil {
				return err
			}
			lg.Info("existing data cleared")
		}

		report, err := database.Seed(ctx, conn.Gorm)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
		lg.Info("reference data seeded",
			"statuses", report.Statuses,
			"priorities", report.Priorities,
			"complexities", report.Complexities,
			"departments", report.Departments,
			"positions", report.Positions)

		if cfg.Cache.Enabled() {
			invalidateMetadataCache(ctx, cfg, conn.Gorm, lg)
		}

		if demoUser {
			return seedDemoUser(ctx, conn.Gorm, cfg.Security.BCryptCost)
		}
		return nil
	},
}

// invalidateMetadataCache drops the cached task lookups the seed may have changed.
func invalidateMetadataCache(ctx context.Context, cfg *internal.Config, db *gorm.DB, lg *slog.Logger) {
	client, err := cache.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		lg.Warn("skipping metadata cache invalidation", "error", err)
		return
	}
	defer client.Close()

	svc := task.NewService(taskPostgres.NewTaskRepository(db), lg).
		WithCache(cache.NewRedis(client, cfg.Cache.KeyPrefix), cfg.Cache.MetadataTTL)
	if err := svc.InvalidateMetadata(ctx); err != nil {
		lg.Warn("failed to invalidate metadata cache", "error", err)
		return
	}
	lg.Info("metadata cache invalidated")
}

const (
	demoEmail    = "admin@example.com"
	demoPassword = "password"
)

// seedDemoUser creates a login for local development unless it already exists.
func seedDemoUser(ctx context.Context, db *gorm.DB, cost int) error {
	lg := logger.LoggerWrapper()

	var existing datamodel.UserProfile
	err := db.WithContext(ctx).Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		lg.Info("demo user already exists", "email", demoEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(demoPassword, cost)
	if err != nil {
		return err
	}
	profile := &datamodel.UserProfile{
		Username:     demoEmail,
		Email:        demoEmail,
		PasswordHash: hash,
		FullName:     "Demo Admin",
		FirstName:    "Demo",
		LastName:     "Admin",
	}
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	lg.Info("demo user created", "email", demoEmail, "password", demoPassword)
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&demoUser, "demo-user", false, "also create admin@example.com with password \"password\"")
}
