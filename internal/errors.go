package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"
	ErrCodeDuplicateValue   ErrorCode = "DUPLICATE_VALUE"
	ErrCodeHasDependents    ErrorCode = "HAS_DEPENDENTS"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"

	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeDepartmentNotFound  ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodePositionNotFound    ErrorCode = "POSITION_NOT_FOUND"
	ErrCodeWorkerNotFound      ErrorCode = "WORKER_NOT_FOUND"
	ErrCodeTaskNotFound        ErrorCode = "TASK_NOT_FOUND"
	ErrCodeTimeEntryNotFound   ErrorCode = "TIME_ENTRY_NOT_FOUND"
	ErrCodeTimerAlreadyRunning ErrorCode = "TIMER_ALREADY_RUNNING"
	ErrCodeTimerAlreadyStopped ErrorCode = "TIMER_ALREADY_STOPPED"
	ErrCodeNotTimeEntryOwner   ErrorCode = "NOT_TIME_ENTRY_OWNER"
	ErrCodeEmailAlreadyExists  ErrorCode = "EMAIL_ALREADY_EXISTS"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeIncorrectPassword   ErrorCode = "INCORRECT_PASSWORD"
	ErrCodeMissingToken        ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInternalServerError ErrorCode = "INTERNAL_ERROR"
)

// AppError is the single error shape services hand back to the transport layer.
type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	Details    interface{}
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// FieldErrors returns the field-level failures carried by a validation error.
func (e *AppError) FieldErrors() []ValidationError {
	if validationErrors, ok := e.Details.(ValidationErrors); ok {
		return validationErrors.Errors
	}
	return nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"-"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation error",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternalServerError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func ErrInvalidCredentials() *AppError {
	return NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
}

func ErrUserNotFound() *AppError {
	return NewNotFoundError("User not found", ErrCodeUserNotFound)
}

func ErrMissingToken() *AppError {
	return NewUnauthorizedError("No token provided", ErrCodeMissingToken)
}

func ErrInvalidToken() *AppError {
	return NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
}

func ErrTokenExpired() *AppError {
	return NewUnauthorizedError("Token expired", ErrCodeTokenExpired)
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ToHTTPResponse maps any error to a status code and the JSON error envelope.
func ToHTTPResponse(err error) (int, *AppError) {
	if appErr, ok := IsAppError(err); ok {
		return appErr.StatusCode, appErr
	}
	return http.StatusInternalServerError, NewInternalError("Internal server error", err)
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	message := e.Message
	if e.Type == ErrorTypeInternal {
		message = "Internal server error"
	}
	return json.Marshal(struct {
		Error   bool              `json:"error"`
		Message string            `json:"message"`
		Code    ErrorCode         `json:"code,omitempty"`
		Errors  []ValidationError `json:"errors,omitempty"`
	}{
		Error:   true,
		Message: message,
		Code:    e.Code,
		Errors:  e.FieldErrors(),
	})
}
