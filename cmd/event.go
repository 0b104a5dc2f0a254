package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/events"
	"github.com/frahmantamala/task-tracker/internal/database"
	"github.com/frahmantamala/task-tracker/internal/task"
	taskPostgres "github.com/frahmantamala/task-tracker/internal/task/postgres"
	"github.com/frahmantamala/task-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Replay domain events through the in-process event bus`,
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate [task-id...]",
	Short: "Recalculate task time spent",
	Long:  `Publishes a time_entry.changed event for the given tasks, or every task when none are given, so their timeSpent is rebuilt from the time entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return recalculateTimeSpent(cmd.Context(), args)
	},
}

func recalculateTimeSpent(ctx context.Context, taskIDs []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
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

	if len(taskIDs) == 0 {
		if err := conn.Gorm.WithContext(ctx).Model(&datamodel.Task{}).Pluck("id", &taskIDs).Error; err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
	}

	bus := events.NewEventBus(lg)
	task.NewService(taskPostgres.NewTaskRepository(conn.Gorm), lg).SubscribeTimeEntryEvents(bus)

	for _, id := range taskIDs {
		event := events.NewTimeEntryChangedEvent("", id, "", events.TimeEntryUpdated)
		if err := bus.PublishSync(ctx, event); err != nil {
			return fmt.Errorf("task %s: %w", id, err)
		}
	}

	lg.Info("time spent recalculated", "tasks", len(taskIDs))
	return nil
}

func init() {
	eventCmd.AddCommand(recalculateCmd)
}
