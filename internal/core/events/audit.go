package events

import (
	"context"
	"log/slog"
)

// SubscribeAuditLog writes one log line per recorded time entry change.
func SubscribeAuditLog(bus *EventBus, logger *slog.Logger) {
	bus.Subscribe(EventTypeTimeEntryRecorded, func(_ context.Context, event Event) error {
		changed, ok := event.(*TimeEntryChangedEvent)
		if !ok {
			return nil
		}
		logger.Info("time entry changed",
			"event_id", changed.EventID(),
			"occurred_at", changed.OccurredAt(),
			"action", changed.Action,
			"time_entry_id", changed.TimeEntryID,
			"task_id", changed.TaskID,
			"user_id", changed.UserID)
		return nil
	})
}
