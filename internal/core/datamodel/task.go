package datamodel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	Name          string          `gorm:"column:name;not null"`
	Description   string          `gorm:"column:description"`
	ComplexityID  int64           `gorm:"column:complexity_id;index;not null"`
	PriorityID    int64           `gorm:"column:priority_id;index;not null"`
	StatusID      int64           `gorm:"column:status_id;index;not null"`
	StartDate     time.Time       `gorm:"column:start_date;not null"`
	Deadline      *time.Time      `gorm:"column:deadline"`
	TimeSpent     float64         `gorm:"column:time_spent;not null;default:0"`
	AssignedToID  int64           `gorm:"column:assigned_to_id;index;not null"`
	ResponsibleID int64           `gorm:"column:responsible_id;index;not null"`
	CreatedByID   string          `gorm:"column:created_by_id;type:varchar(36);index;not null"`
	Status        *TaskStatus     `gorm:"foreignKey:StatusID"`
	Priority      *TaskPriority   `gorm:"foreignKey:PriorityID"`
	Complexity    *TaskComplexity `gorm:"foreignKey:ComplexityID"`
	AssignedTo    *Worker         `gorm:"foreignKey:AssignedToID"`
	Responsible   *Worker         `gorm:"foreignKey:ResponsibleID"`
	Creator       *UserProfile    `gorm:"foreignKey:CreatedByID"`
	TimeEntries   []TimeEntry     `gorm:"foreignKey:TaskID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.StartDate.IsZero() {
		t.StartDate = time.Now()
	}
	return nil
}

// Lookup is the shared shape of the status, priority and complexity tables.
type Lookup struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Color       string    `gorm:"column:color;not null;default:'#000000'"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type TaskStatus struct {
	Lookup
}

func (TaskStatus) TableName() string {
	return "task_statuses"
}

type TaskPriority struct {
	Lookup
}

func (TaskPriority) TableName() string {
	return "task_priorities"
}

type TaskComplexity struct {
	Lookup
}

func (TaskComplexity) TableName() string {
	return "task_complexities"
}
