package datamodel

import "time"

type Department struct {
	ID          int64      `gorm:"primaryKey"`
	Name        string     `gorm:"column:name;uniqueIndex;not null"`
	Description string     `gorm:"column:description"`
	Positions   []Position `gorm:"foreignKey:DepartmentID"`
	Workers     []Worker   `gorm:"foreignKey:DepartmentID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

type Position struct {
	ID           int64       `gorm:"primaryKey"`
	Name         string      `gorm:"column:name;uniqueIndex;not null"`
	Description  string      `gorm:"column:description"`
	DepartmentID int64       `gorm:"column:department_id;index;not null"`
	Department   *Department `gorm:"foreignKey:DepartmentID"`
	Workers      []Worker    `gorm:"foreignKey:PositionID"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}

type Worker struct {
	ID               int64        `gorm:"primaryKey"`
	FirstName        string       `gorm:"column:first_name;not null;index:idx_workers_name,priority:2"`
	LastName         string       `gorm:"column:last_name;not null;index:idx_workers_name,priority:1"`
	SecondName       *string      `gorm:"column:second_name"`
	PositionID       int64        `gorm:"column:position_id;index;not null"`
	DepartmentID     int64        `gorm:"column:department_id;index;not null"`
	UserProfileID    *string      `gorm:"column:user_profile_id;type:varchar(36);uniqueIndex"`
	Department       *Department  `gorm:"foreignKey:DepartmentID"`
	Position         *Position    `gorm:"foreignKey:PositionID"`
	UserProfile      *UserProfile `gorm:"foreignKey:UserProfileID"`
	AssignedTasks    []Task       `gorm:"foreignKey:AssignedToID"`
	ResponsibleTasks []Task       `gorm:"foreignKey:ResponsibleID"`
	CreatedAt        time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Worker) TableName() string {
	return "workers"
}
