package task

import (
	"net/url"
	"strings"
	"time"

	errors "github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/common/validation"
)

type CreateTaskDTO struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ComplexityID  int64      `json:"complexityId"`
	PriorityID    int64      `json:"priorityId"`
	StatusID      int64      `json:"statusId"`
	StartDate     *time.Time `json:"startDate"`
	Deadline      *time.Time `json:"deadline"`
	AssignedToID  int64      `json:"assignedToId"`
	ResponsibleID int64      `json:"responsibleId"`
}

// UpdateTaskDTO changes only the fields present in the body.
type UpdateTaskDTO struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	ComplexityID  *int64     `json:"complexityId"`
	PriorityID    *int64     `json:"priorityId"`
	StatusID      *int64     `json:"statusId"`
	StartDate     *time.Time `json:"startDate"`
	Deadline      *time.Time `json:"deadline"`
	AssignedToID  *int64     `json:"assignedToId"`
	ResponsibleID *int64     `json:"responsibleId"`
}

type UpdateStatusDTO struct {
	StatusID int64 `json:"statusId"`
}

type ListFilter struct {
	Search        string
	StatusID      *int64
	PriorityID    *int64
	ComplexityID  *int64
	AssignedToID  *int64
	ResponsibleID *int64
	Page          pagination.Params
	Sort          pagination.Sort
}

var sortColumns = map[string]string{
	"name":      "name",
	"startDate": "start_date",
	"deadline":  "deadline",
	"timeSpent": "time_spent",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var defaultSort = pagination.Sort{Column: "created_at", Desc: true}

func ParseListFilter(q url.Values) ListFilter {
	return ListFilter{
		Search: q.Get("search"),
		Page:   pagination.ParseParams(q),
		Sort:   pagination.ParseSort(q, sortColumns, defaultSort),
	}
}

func (d *CreateTaskDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("complexityId", d.ComplexityID).Required().Positive()
	v.Field("priorityId", d.PriorityID).Required().Positive()
	v.Field("statusId", d.StatusID).Required().Positive()
	v.Field("assignedToId", d.AssignedToID).Required().Positive()
	v.Field("responsibleId", d.ResponsibleID).Required().Positive()
	v.Field("deadline", d.Deadline).NotBefore(d.StartDate, "startDate")
	return v.Validate()
}

func (d *UpdateTaskDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(200)
	}
	v.Field("complexityId", d.ComplexityID).Positive()
	v.Field("priorityId", d.PriorityID).Positive()
	v.Field("statusId", d.StatusID).Positive()
	v.Field("assignedToId", d.AssignedToID).Positive()
	v.Field("responsibleId", d.ResponsibleID).Positive()
	v.Field("deadline", d.Deadline).NotBefore(d.StartDate, "startDate")
	return v.Validate()
}

func (d UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("statusId", d.StatusID).Required().Positive()
	return v.Validate()
}
