package worker

import (
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/user"
	"github.com/frahmantamala/task-tracker/internal/core/view"
)

type WorkerResponse struct {
	ID               int64            `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	SecondName       *string          `json:"secondName"`
	DepartmentID     int64            `json:"departmentId"`
	PositionID       int64            `json:"positionId"`
	UserProfileID    *string          `json:"userProfileId"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	Department       *view.Department `json:"department"`
	Position         *view.Position   `json:"position"`
	UserProfile      *user.Public     `json:"userProfile"`
	AssignedTasks    []view.Task      `json:"assignedTasks,omitempty"`
	ResponsibleTasks []view.Task      `json:"responsibleTasks,omitempty"`
}

type ListResponse struct {
	Workers    []WorkerResponse `json:"workers"`
	Pagination pagination.Meta  `json:"pagination"`
}

// FullName joins the name parts the way the user profile does.
func (w *WorkerResponse) FullName() string {
	return user.JoinName(user.NameParts{FirstName: w.FirstName, LastName: w.LastName, SecondName: w.SecondName})
}

func FromDataModel(w *datamodel.Worker) *WorkerResponse {
	resp := &WorkerResponse{
		ID:            w.ID,
		FirstName:     w.FirstName,
		LastName:      w.LastName,
		SecondName:    w.SecondName,
		DepartmentID:  w.DepartmentID,
		PositionID:    w.PositionID,
		UserProfileID: w.UserProfileID,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
		Department:    view.DepartmentOf(w.Department),
		Position:      view.PositionOf(w.Position),
		UserProfile:   user.FromDataModel(w.UserProfile),
	}
	if w.AssignedTasks != nil {
		resp.AssignedTasks = view.TasksOf(w.AssignedTasks)
	}
	if w.ResponsibleTasks != nil {
		resp.ResponsibleTasks = view.TasksOf(w.ResponsibleTasks)
	}
	return resp
}

func FromDataModels(rows []datamodel.Worker) []WorkerResponse {
	out := make([]WorkerResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *FromDataModel(&rows[i]))
	}
	return out
}
