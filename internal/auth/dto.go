package auth

import (
	"strings"

	errors "github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/validation"
)

// RegisterDTO is the body of POST /api/auth/register.
type RegisterDTO struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	SecondName *string `json:"secondName"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileDTO carries the optional profile changes. The password only
// changes when both currentPassword and newPassword are present.
type UpdateProfileDTO struct {
	FullName        *string `json:"fullName"`
	Email           *string `json:"email"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

func (d *RegisterDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	if d.SecondName != nil {
		trimmed := strings.TrimSpace(*d.SecondName)
		if trimmed == "" {
			d.SecondName = nil
		} else {
			d.SecondName = &trimmed
		}
	}
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(50)
	v.Field("lastName", d.LastName).Required().MaxLength(50)
	v.Field("email", d.Email).Required().Email().MaxLength(100)
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d UpdateProfileDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.FullName != nil {
		v.Field("fullName", *d.FullName).Required().MaxLength(100)
	}
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email().MaxLength(100)
	}
	return v.Validate()
}

// ChangesPassword reports whether the request asks for a password change.
func (d UpdateProfileDTO) ChangesPassword() bool {
	return d.CurrentPassword != "" && d.NewPassword != ""
}
