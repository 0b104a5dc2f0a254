// Package view holds the nested reference shapes shared by several API responses.
package view

import (
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
)

type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func DepartmentOf(d *datamodel.Department) *Department {
	if d == nil {
		return nil
	}
	return &Department{ID: d.ID, Name: d.Name, Description: d.Description}
}

type Position struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DepartmentID int64  `json:"departmentId"`
}

func PositionOf(p *datamodel.Position) *Position {
	if p == nil {
		return nil
	}
	return &Position{ID: p.ID, Name: p.Name, Description: p.Description, DepartmentID: p.DepartmentID}
}

// Worker is a worker summary with whichever of department and position were loaded.
type Worker struct {
	ID            int64       `json:"id"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	SecondName    *string     `json:"secondName"`
	DepartmentID  int64       `json:"departmentId"`
	PositionID    int64       `json:"positionId"`
	UserProfileID *string     `json:"userProfileId"`
	Department    *Department `json:"department,omitempty"`
	Position      *Position   `json:"position,omitempty"`
}

func WorkerOf(w *datamodel.Worker) *Worker {
	if w == nil {
		return nil
	}
	return &Worker{
		ID:            w.ID,
		FirstName:     w.FirstName,
		LastName:      w.LastName,
		SecondName:    w.SecondName,
		DepartmentID:  w.DepartmentID,
		PositionID:    w.PositionID,
		UserProfileID: w.UserProfileID,
		Department:    DepartmentOf(w.Department),
		Position:      PositionOf(w.Position),
	}
}

func WorkersOf(rows []datamodel.Worker) []Worker {
	out := make([]Worker, 0, len(rows))
	for i := range rows {
		out = append(out, *WorkerOf(&rows[i]))
	}
	return out
}

// Lookup is a status, priority or complexity row.
type Lookup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	OrderIndex  int    `json:"orderIndex"`
}

func LookupOf(l *datamodel.Lookup) *Lookup {
	if l == nil {
		return nil
	}
	return &Lookup{ID: l.ID, Name: l.Name, Description: l.Description, Color: l.Color, OrderIndex: l.OrderIndex}
}

func StatusOf(s *datamodel.TaskStatus) *Lookup {
	if s == nil {
		return nil
	}
	return LookupOf(&s.Lookup)
}

func PriorityOf(p *datamodel.TaskPriority) *Lookup {
	if p == nil {
		return nil
	}
	return LookupOf(&p.Lookup)
}

func ComplexityOf(c *datamodel.TaskComplexity) *Lookup {
	if c == nil {
		return nil
	}
	return LookupOf(&c.Lookup)
}

// Task is a task summary as it appears under workers and time entries.
type Task struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StatusID  int64      `json:"statusId"`
	StartDate time.Time  `json:"startDate"`
	Deadline  *time.Time `json:"deadline"`
	TimeSpent float64    `json:"timeSpent"`
	Status    *Lookup    `json:"status,omitempty"`
	Priority  *Lookup    `json:"priority,omitempty"`
}

func TaskOf(t *datamodel.Task) *Task {
	if t == nil {
		return nil
	}
	return &Task{
		ID:        t.ID,
		Name:      t.Name,
		StatusID:  t.StatusID,
		StartDate: t.StartDate,
		Deadline:  t.Deadline,
		TimeSpent: t.TimeSpent,
		Status:    StatusOf(t.Status),
		Priority:  PriorityOf(t.Priority),
	}
}

func TasksOf(rows []datamodel.Task) []Task {
	out := make([]Task, 0, len(rows))
	for i := range rows {
		out = append(out, *TaskOf(&rows[i]))
	}
	return out
}
