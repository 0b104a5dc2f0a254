package datamodel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntry struct {
	ID            string       `gorm:"primaryKey;type:varchar(36)"`
	TaskID        string       `gorm:"column:task_id;type:varchar(36);index;not null"`
	UserProfileID string       `gorm:"column:user_profile_id;type:varchar(36);index;not null"`
	StartTime     time.Time    `gorm:"column:start_time;not null"`
	EndTime       *time.Time   `gorm:"column:end_time"`
	Duration      *int         `gorm:"column:duration"`
	Description   string       `gorm:"column:description"`
	Task          *Task        `gorm:"foreignKey:TaskID"`
	User          *UserProfile `gorm:"foreignKey:UserProfileID"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

func (t *TimeEntry) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave stores both ends in UTC so range filters compare the same way on every driver.
func (t *TimeEntry) BeforeSave(_ *gorm.DB) error {
	t.StartTime = t.StartTime.UTC()
	if t.EndTime != nil {
		end := t.EndTime.UTC()
		t.EndTime = &end
	}
	return nil
}

// Running reports whether the timer has not been stopped yet.
func (t *TimeEntry) Running() bool {
	return t.EndTime == nil
}

// Models lists every table in dependency order for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&UserProfile{},
		&Department{},
		&Position{},
		&Worker{},
		&TaskStatus{},
		&TaskPriority{},
		&TaskComplexity{},
		&Task{},
		&TimeEntry{},
	}
}
