package position

import (
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/view"
)

type PositionResponse struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	DepartmentID int64            `json:"departmentId"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Department   *view.Department `json:"department"`
	Workers      []view.Worker    `json:"workers"`
}

func FromDataModel(p *datamodel.Position) *PositionResponse {
	return &PositionResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DepartmentID: p.DepartmentID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Department:   view.DepartmentOf(p.Department),
		Workers:      view.WorkersOf(p.Workers),
	}
}

func FromDataModels(rows []datamodel.Position) []PositionResponse {
	out := make([]PositionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *FromDataModel(&rows[i]))
	}
	return out
}
