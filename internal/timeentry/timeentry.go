package timeentry

import (
	"math"
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/user"
	"github.com/frahmantamala/task-tracker/internal/core/view"
)

type TimeEntryResponse struct {
	ID            string       `json:"id"`
	TaskID        string       `json:"taskId"`
	UserProfileID string       `json:"userProfileId"`
	StartTime     time.Time    `json:"startTime"`
	EndTime       *time.Time   `json:"endTime"`
	Duration      *int         `json:"duration"`
	Description   string       `json:"description"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Task          *view.Task   `json:"task"`
	User          *user.Public `json:"user"`
}

type ListResponse struct {
	TimeEntries []TimeEntryResponse `json:"timeEntries"`
	Pagination  pagination.Meta     `json:"pagination"`
}

func FromDataModel(e *datamodel.TimeEntry) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:            e.ID,
		TaskID:        e.TaskID,
		UserProfileID: e.UserProfileID,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Duration:      e.Duration,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Task:          view.TaskOf(e.Task),
		User:          user.FromDataModel(e.User),
	}
}

func FromDataModels(rows []datamodel.TimeEntry) []TimeEntryResponse {
	out := make([]TimeEntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *FromDataModel(&rows[i]))
	}
	return out
}

// DurationMinutes is the elapsed time between start and end rounded to whole minutes.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}
