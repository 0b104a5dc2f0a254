package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTimeEntryChanged  = "time_entry.changed"
	EventTypeTimeEntryRecorded = "time_entry.recorded"
)

const (
	TimeEntryCreated = "created"
	TimeEntryStopped = "stopped"
	TimeEntryUpdated = "updated"
	TimeEntryDeleted = "deleted"
)

// TimeEntryChangedEvent is emitted after any write to a time entry so the owning task can recompute its total.
type TimeEntryChangedEvent struct {
	BaseEvent
	TimeEntryID string `json:"time_entry_id"`
	TaskID      string `json:"task_id"`
	UserID      string `json:"user_id"`
	Action      string `json:"action"`
}

func NewTimeEntryChangedEvent(timeEntryID, taskID, userID, action string) *TimeEntryChangedEvent {
	return &TimeEntryChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTimeEntryChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"time_entry_id": timeEntryID,
				"task_id":       taskID,
				"user_id":       userID,
				"action":        action,
			},
		},
		TimeEntryID: timeEntryID,
		TaskID:      taskID,
		UserID:      userID,
		Action:      action,
	}
}

// Recorded is the follow-up of a change once the task total is up to date.
// It is published in the background for subscribers that must not hold up the request.
func (e *TimeEntryChangedEvent) Recorded() *TimeEntryChangedEvent {
	recorded := *e
	recorded.ID = uuid.New().String()
	recorded.Type = EventTypeTimeEntryRecorded
	recorded.Timestamp = time.Now()
	return &recorded
}
