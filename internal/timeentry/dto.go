package timeentry

import (
	"net/url"
	"strings"
	"time"

	errors "github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/common/validation"
)

type CreateTimeEntryDTO struct {
	TaskID      string     `json:"taskId"`
	StartTime   *time.Time `json:"startTime"`
	Description string     `json:"description"`
}

// UpdateTimeEntryDTO changes only the fields present in the body.
type UpdateTimeEntryDTO struct {
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Description *string    `json:"description"`
}

type ListFilter struct {
	TaskID    string
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      pagination.Params
	Sort      pagination.Sort
}

var sortColumns = map[string]string{
	"startTime": "start_time",
	"endTime":   "end_time",
	"duration":  "duration",
	"createdAt": "created_at",
}

var defaultSort = pagination.Sort{Column: "start_time", Desc: true}

const dateLayout = "2006-01-02"

// parseBound accepts RFC 3339 or a bare date and returns the bound in UTC.
// A bare end date covers the whole day.
func parseBound(raw string, end bool) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, false
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

func ParseListFilter(q url.Values) (ListFilter, *errors.AppError) {
	filter := ListFilter{
		TaskID: strings.TrimSpace(q.Get("task")),
		UserID: strings.TrimSpace(q.Get("user")),
		Page:   pagination.ParseParams(q),
		Sort:   pagination.ParseSort(q, sortColumns, defaultSort),
	}

	var ok bool
	if filter.StartDate, ok = parseBound(q.Get("startDate"), false); !ok {
		return filter, errors.NewValidationFieldError("startDate", "Invalid startDate", errors.ErrCodeInvalidDate)
	}
	if filter.EndDate, ok = parseBound(q.Get("endDate"), true); !ok {
		return filter, errors.NewValidationFieldError("endDate", "Invalid endDate", errors.ErrCodeInvalidDate)
	}
	return filter, nil
}

func (d *CreateTimeEntryDTO) Validate() *errors.AppError {
	d.TaskID = strings.TrimSpace(d.TaskID)
	v := validation.NewValidator()
	v.Field("taskId", d.TaskID).Required()
	v.Field("description", d.Description).MaxLength(1000)
	return v.Validate()
}

func (d UpdateTimeEntryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("endTime", d.EndTime).NotBefore(d.StartTime, "startTime")
	v.Field("description", d.Description).MaxLength(1000)
	return v.Validate()
}
