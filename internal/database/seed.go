package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"gorm.io/gorm"
)

var taskStatuses = []datamodel.Lookup{
	{Name: "New", Description: "Newly created task", Color: "#1976d2", OrderIndex: 1},
	{Name: "Analysis", Description: "Task is under analysis", Color: "#9c27b0", OrderIndex: 2},
	{Name: "In Development", Description: "Task is being developed", Color: "#f57c00", OrderIndex: 3},
	{Name: "Review", Description: "Task is under review", Color: "#2196f3", OrderIndex: 4},
	{Name: "Under Revision", Description: "Task needs revision", Color: "#ff9800", OrderIndex: 5},
	{Name: "Rollout", Description: "Task is being rolled out", Color: "#4caf50", OrderIndex: 6},
	{Name: "Other Direction", Description: "Task is redirected to another direction", Color: "#607d8b", OrderIndex: 7},
	{Name: "Completed", Description: "Task is completed", Color: "#388e3c", OrderIndex: 8},
}

var taskPriorities = []datamodel.Lookup{
	{Name: "Low", Description: "Low priority task", Color: "#4caf50", OrderIndex: 1},
	{Name: "Medium", Description: "Medium priority task", Color: "#ff9800", OrderIndex: 2},
	{Name: "High", Description: "High priority task", Color: "#f44336", OrderIndex: 3},
	{Name: "Critical", Description: "Critical priority task", Color: "#d32f2f", OrderIndex: 4},
}

var taskComplexities = []datamodel.Lookup{
	{Name: "Simple", Description: "Simple task that can be completed quickly", Color: "#4caf50", OrderIndex: 1},
	{Name: "Moderate", Description: "Moderately complex task", Color: "#ff9800", OrderIndex: 2},
	{Name: "Complex", Description: "Complex task requiring significant effort", Color: "#f57c00", OrderIndex: 3},
	{Name: "Very Complex", Description: "Very complex task requiring extensive effort", Color: "#f44336", OrderIndex: 4},
}

var departments = []datamodel.Department{
	{Name: "Development", Description: "Software Development Department"},
	{Name: "QA", Description: "Quality Assurance Department"},
	{Name: "Design", Description: "UI/UX Design Department"},
	{Name: "Project Management", Description: "Project Management Department"},
}

// positions are keyed by the name of the department they belong to.
var positions = []struct {
	Name        string
	Description string
	Department  string
}{
	{"Junior Developer", "Junior Software Developer", "Development"},
	{"Senior Developer", "Senior Software Developer", "Development"},
	{"QA Engineer", "Quality Assurance Engineer", "QA"},
	{"UI/UX Designer", "User Interface/Experience Designer", "Design"},
	{"Project Manager", "Project Manager", "Project Management"},
}

// SeedReport counts the rows inserted by Seed; existing rows are left alone.
type SeedReport struct {
	Statuses     int
	Priorities   int
	Complexities int
	Departments  int
	Positions    int
}

// Seed inserts the reference data every installation needs. Running it twice is a no-op.
func Seed(ctx context.Context, db *gorm.DB) (SeedReport, error) {
	var report SeedReport
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range taskStatuses {
			created, err := firstOrCreate(tx, &datamodel.TaskStatus{Lookup: l}, l.Name)
			if err != nil {
				return fmt.Errorf("seed status %s: %w", l.Name, err)
			}
			report.Statuses += created
		}
		for _, l := range taskPriorities {
			created, err := firstOrCreate(tx, &datamodel.TaskPriority{Lookup: l}, l.Name)
			if err != nil {
				return fmt.Errorf("seed priority %s: %w", l.Name, err)
			}
			report.Priorities += created
		}
		for _, l := range taskComplexities {
			created, err := firstOrCreate(tx, &datamodel.TaskComplexity{Lookup: l}, l.Name)
			if err != nil {
				return fmt.Errorf("seed complexity %s: %w", l.Name, err)
			}
			report.Complexities += created
		}

		departmentIDs := make(map[string]int64, len(departments))
		for _, d := range departments {
			row := d
			created, err := firstOrCreate(tx, &row, d.Name)
			if err != nil {
				return fmt.Errorf("seed department %s: %w", d.Name, err)
			}
			report.Departments += created
			departmentIDs[d.Name] = row.ID
		}

		for _, p := range positions {
			row := datamodel.Position{Name: p.Name, Description: p.Description, DepartmentID: departmentIDs[p.Department]}
			created, err := firstOrCreate(tx, &row, p.Name)
			if err != nil {
				return fmt.Errorf("seed position %s: %w", p.Name, err)
			}
			report.Positions += created
		}
		return nil
	})
	return report, err
}

func firstOrCreate(tx *gorm.DB, row interface{}, name string) (int, error) {
	err := tx.Where("name = ?", name).First(row).Error
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if err := tx.Create(row).Error; err != nil {
		return 0, err
	}
	return 1, nil
}

// Clear removes every row, children first.
func Clear(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&datamodel.TimeEntry{},
		&datamodel.Task{},
		&datamodel.Worker{},
		&datamodel.Position{},
		&datamodel.Department{},
		&datamodel.TaskStatus{},
		&datamodel.TaskPriority{},
		&datamodel.TaskComplexity{},
		&datamodel.UserProfile{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
