package task

import (
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/user"
	"github.com/frahmantamala/task-tracker/internal/core/view"
)

type TaskResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	ComplexityID  int64              `json:"complexityId"`
	PriorityID    int64              `json:"priorityId"`
	StatusID      int64              `json:"statusId"`
	StartDate     time.Time          `json:"startDate"`
	Deadline      *time.Time         `json:"deadline"`
	TimeSpent     float64            `json:"timeSpent"`
	AssignedToID  int64              `json:"assignedToId"`
	ResponsibleID int64              `json:"responsibleId"`
	CreatedByID   string             `json:"createdById"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Status        *view.Lookup       `json:"status"`
	Priority      *view.Lookup       `json:"priority"`
	Complexity    *view.Lookup       `json:"complexity"`
	AssignedTo    *view.Worker       `json:"assignedTo"`
	Responsible   *view.Worker       `json:"responsible"`
	Creator       *user.Public       `json:"creator"`
	TimeEntries   []TimeEntrySummary `json:"timeEntries,omitempty"`
}

// TimeEntrySummary is a time entry as listed under its task.
type TimeEntrySummary struct {
	ID            string       `json:"id"`
	UserProfileID string       `json:"userProfileId"`
	StartTime     time.Time    `json:"startTime"`
	EndTime       *time.Time   `json:"endTime"`
	Duration      *int         `json:"duration"`
	Description   string       `json:"description"`
	User          *user.Public `json:"user"`
}

type ListResponse struct {
	Tasks      []TaskResponse  `json:"tasks"`
	Pagination pagination.Meta `json:"pagination"`
}

type MetadataResponse struct {
	Statuses     []view.Lookup `json:"statuses"`
	Priorities   []view.Lookup `json:"priorities"`
	Complexities []view.Lookup `json:"complexities"`
}

func FromDataModel(t *datamodel.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		ComplexityID:  t.ComplexityID,
		PriorityID:    t.PriorityID,
		StatusID:      t.StatusID,
		StartDate:     t.StartDate,
		Deadline:      t.Deadline,
		TimeSpent:     t.TimeSpent,
		AssignedToID:  t.AssignedToID,
		ResponsibleID: t.ResponsibleID,
		CreatedByID:   t.CreatedByID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Status:        view.StatusOf(t.Status),
		Priority:      view.PriorityOf(t.Priority),
		Complexity:    view.ComplexityOf(t.Complexity),
		AssignedTo:    view.WorkerOf(t.AssignedTo),
		Responsible:   view.WorkerOf(t.Responsible),
		Creator:       user.FromDataModel(t.Creator),
	}
	if t.TimeEntries != nil {
		resp.TimeEntries = make([]TimeEntrySummary, 0, len(t.TimeEntries))
		for _, e := range t.TimeEntries {
			resp.TimeEntries = append(resp.TimeEntries, TimeEntrySummary{
				ID:            e.ID,
				UserProfileID: e.UserProfileID,
				StartTime:     e.StartTime,
				EndTime:       e.EndTime,
				Duration:      e.Duration,
				Description:   e.Description,
				User:          user.FromDataModel(e.User),
			})
		}
	}
	return resp
}

func FromDataModels(rows []datamodel.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *FromDataModel(&rows[i]))
	}
	return out
}

func lookupsOf[T any](rows []T, get func(*T) *datamodel.Lookup) []view.Lookup {
	out := make([]view.Lookup, 0, len(rows))
	for i := range rows {
		out = append(out, *view.LookupOf(get(&rows[i])))
	}
	return out
}

// HoursFromMinutes converts a summed duration into the timeSpent value.
func HoursFromMinutes(minutes int64) float64 {
	return float64(minutes) / 60
}
