package position

import (
	"strings"

	errors "github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/validation"
)

type CreatePositionDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DepartmentID int64  `json:"departmentId"`
}

type UpdatePositionDTO struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DepartmentID *int64  `json:"departmentId"`
}

// ListFilter narrows GET /api/positions.
type ListFilter struct {
	Search       string
	DepartmentID *int64
}

func (d *CreatePositionDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("departmentId", d.DepartmentID).Required().Positive()
	return v.Validate()
}

func (d *UpdatePositionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(100)
	}
	v.Field("departmentId", d.DepartmentID).Positive()
	return v.Validate()
}
