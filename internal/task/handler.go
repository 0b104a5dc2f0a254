package task

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	GetByID(ctx context.Context, id string) (*TaskResponse, error)
	Create(ctx context.Context, createdByID string, dto CreateTaskDTO) (*TaskResponse, error)
	Update(ctx context.Context, id string, dto UpdateTaskDTO) (*TaskResponse, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*TaskResponse, error)
	Delete(ctx context.Context, id string) error
	GetMetadata(ctx context.Context) (*MetadataResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ParseListFilter(r.URL.Query())
	filter.StatusID = h.QueryInt64(r, "status")
	filter.PriorityID = h.QueryInt64(r, "priority")
	filter.ComplexityID = h.QueryInt64(r, "complexity")
	filter.AssignedToID = h.QueryInt64(r, "assignedTo")
	filter.ResponsibleID = h.QueryInt64(r, "responsible")

	tasks, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.StringParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

// Create records the authenticated user as the task's creator.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteAppError(w, internal.ErrMissingToken())
		return
	}

	var dto CreateTaskDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.StringParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateTaskDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.StringParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateStatusDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.UpdateStatus(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.StringParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.MessageResponse{Message: "Task deleted successfully"})
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request, pick func(*MetadataResponse) interface{}) {
	meta, err := h.Service.GetMetadata(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, pick(meta))
}

func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	h.metadata(w, r, func(m *MetadataResponse) interface{} { return m })
}

func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	h.metadata(w, r, func(m *MetadataResponse) interface{} { return m.Statuses })
}

func (h *Handler) Priorities(w http.ResponseWriter, r *http.Request) {
	h.metadata(w, r, func(m *MetadataResponse) interface{} { return m.Priorities })
}

func (h *Handler) Complexities(w http.ResponseWriter, r *http.Request) {
	h.metadata(w, r, func(m *MetadataResponse) interface{} { return m.Complexities })
}
