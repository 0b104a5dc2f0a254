package department

import (
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/view"
)

// PositionWithWorkers is a position of the department together with its staff.
type PositionWithWorkers struct {
	view.Position
	Workers []view.Worker `json:"workers"`
}

type DepartmentResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
	Positions   []PositionWithWorkers `json:"positions"`
	Workers     []view.Worker         `json:"workers,omitempty"`
}

func FromDataModel(d *datamodel.Department) *DepartmentResponse {
	positions := make([]PositionWithWorkers, 0, len(d.Positions))
	for i := range d.Positions {
		positions = append(positions, PositionWithWorkers{
			Position: *view.PositionOf(&d.Positions[i]),
			Workers:  view.WorkersOf(d.Positions[i].Workers),
		})
	}

	var workers []view.Worker
	if d.Workers != nil {
		workers = view.WorkersOf(d.Workers)
	}

	return &DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Positions:   positions,
		Workers:     workers,
	}
}

func FromDataModels(rows []datamodel.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *FromDataModel(&rows[i]))
	}
	return out
}
