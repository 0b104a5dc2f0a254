package department

import (
	"strings"

	errors "github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateDepartmentDTO leaves fields that are absent from the body untouched.
type UpdateDepartmentDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (d *CreateDepartmentDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	return v.Validate()
}

func (d *UpdateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(100)
	}
	return v.Validate()
}
