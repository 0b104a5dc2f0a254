package worker

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	GetByID(ctx context.Context, id int64) (*WorkerResponse, error)
	Create(ctx context.Context, dto CreateWorkerDTO) (*WorkerResponse, error)
	Update(ctx context.Context, id int64, dto UpdateWorkerDTO) (*WorkerResponse, error)
	Delete(ctx context.Context, id int64) error
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
	filter.DepartmentID = h.QueryInt64(r, "department")
	filter.PositionID = h.QueryInt64(r, "position")

	workers, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, workers)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.Int64Param(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	wk, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wk)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateWorkerDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	wk, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, wk)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.Int64Param(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateWorkerDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	wk, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wk)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.Int64Param(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.MessageResponse{Message: "Worker deleted successfully"})
}
