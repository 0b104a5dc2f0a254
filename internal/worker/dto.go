package worker

import (
	"net/url"
	"strings"

	errors "github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/common/validation"
)

type CreateWorkerDTO struct {
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	SecondName    *string `json:"secondName"`
	DepartmentID  int64   `json:"departmentId"`
	PositionID    int64   `json:"positionId"`
	UserProfileID *string `json:"userProfileId"`
}

// UpdateWorkerDTO changes only the fields present in the body. An empty
// userProfileId unlinks the worker from its profile.
type UpdateWorkerDTO struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	SecondName    *string `json:"secondName"`
	DepartmentID  *int64  `json:"departmentId"`
	PositionID    *int64  `json:"positionId"`
	UserProfileID *string `json:"userProfileId"`
}

type ListFilter struct {
	Search       string
	DepartmentID *int64
	PositionID   *int64
	Page         pagination.Params
	Sort         pagination.Sort
}

var sortColumns = map[string]string{
	"id":         "id",
	"firstName":  "first_name",
	"lastName":   "last_name",
	"secondName": "second_name",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

var defaultSort = pagination.Sort{Column: "last_name"}

// ParseListFilter reads the list query string.
func ParseListFilter(q url.Values) ListFilter {
	return ListFilter{
		Search: q.Get("search"),
		Page:   pagination.ParseParams(q),
		Sort:   pagination.ParseSort(q, sortColumns, defaultSort),
	}
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (d *CreateWorkerDTO) Validate() *errors.AppError {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.SecondName = optionalText(d.SecondName)
	d.UserProfileID = optionalText(d.UserProfileID)

	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(50)
	v.Field("lastName", d.LastName).Required().MaxLength(50)
	v.Field("secondName", d.SecondName).MaxLength(50)
	v.Field("departmentId", d.DepartmentID).Required().Positive()
	v.Field("positionId", d.PositionID).Required().Positive()
	return v.Validate()
}

func (d *UpdateWorkerDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.FirstName != nil {
		trimmed := strings.TrimSpace(*d.FirstName)
		d.FirstName = &trimmed
		v.Field("firstName", trimmed).Required().MaxLength(50)
	}
	if d.LastName != nil {
		trimmed := strings.TrimSpace(*d.LastName)
		d.LastName = &trimmed
		v.Field("lastName", trimmed).Required().MaxLength(50)
	}
	v.Field("secondName", d.SecondName).MaxLength(50)
	v.Field("departmentId", d.DepartmentID).Positive()
	v.Field("positionId", d.PositionID).Positive()
	return v.Validate()
}
