package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// MessageResponse is the body of successful deletes.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError writes the JSON envelope for an AppError
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", appErr.StatusCode, "message", appErr.Message, "error", appErr.Cause)
	} else {
		h.Logger.Debug("http error", "status", appErr.StatusCode, "message", appErr.GetDetailedMessage())
	}
	h.WriteJSON(w, appErr.StatusCode, appErr)
}

// HandleServiceError maps any service error onto the error envelope
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	_, appErr := internal.ToHTTPResponse(err)
	h.WriteAppError(w, appErr)
}

// DecodeJSON reads the request body into dst
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *internal.AppError {
	if r.Body == nil {
		return internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidBody).WithCause(err)
	}
	return nil
}

// Int64Param parses a numeric chi URL parameter
func (h *BaseHandler) Int64Param(r *http.Request, name string) (int64, *internal.AppError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, internal.NewValidationFieldError(name, fmt.Sprintf("Invalid %s", name), internal.ErrCodeInvalidID)
	}
	return id, nil
}

// StringParam returns a non-empty chi URL parameter
func (h *BaseHandler) StringParam(r *http.Request, name string) (string, *internal.AppError) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return "", internal.NewValidationFieldError(name, fmt.Sprintf("Invalid %s", name), internal.ErrCodeInvalidID)
	}
	return raw, nil
}

// QueryInt64 returns the numeric query value, or nil when it is absent or not a number
func (h *BaseHandler) QueryInt64(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return strings.TrimSpace(authHeader[7:])
}
