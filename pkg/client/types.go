package client

import "time"

type User struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	SecondName *string `json:"secondName"`
	FullName   string  `json:"fullName"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type Profile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	SecondName    *string   `json:"secondName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	WorkerProfile *Worker   `json:"workerProfile"`
}

type Department struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Positions   []Position `json:"positions,omitempty"`
	Workers     []Worker   `json:"workers,omitempty"`
}

type Position struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	DepartmentID int64       `json:"departmentId"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Department   *Department `json:"department,omitempty"`
	Workers      []Worker    `json:"workers,omitempty"`
}

type Worker struct {
	ID               int64       `json:"id"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	SecondName       *string     `json:"secondName"`
	DepartmentID     int64       `json:"departmentId"`
	PositionID       int64       `json:"positionId"`
	UserProfileID    *string     `json:"userProfileId"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	Department       *Department `json:"department,omitempty"`
	Position         *Position   `json:"position,omitempty"`
	UserProfile      *PublicUser `json:"userProfile,omitempty"`
	AssignedTasks    []Task      `json:"assignedTasks,omitempty"`
	ResponsibleTasks []Task      `json:"responsibleTasks,omitempty"`
}

// Lookup is a task status, priority or complexity.
type Lookup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	OrderIndex  int    `json:"orderIndex"`
}

type Metadata struct {
	Statuses     []Lookup `json:"statuses"`
	Priorities   []Lookup `json:"priorities"`
	Complexities []Lookup `json:"complexities"`
}

type Task struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	ComplexityID  int64       `json:"complexityId"`
	PriorityID    int64       `json:"priorityId"`
	StatusID      int64       `json:"statusId"`
	StartDate     time.Time   `json:"startDate"`
	Deadline      *time.Time  `json:"deadline"`
	TimeSpent     float64     `json:"timeSpent"`
	AssignedToID  int64       `json:"assignedToId"`
	ResponsibleID int64       `json:"responsibleId"`
	CreatedByID   string      `json:"createdById"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Status        *Lookup     `json:"status,omitempty"`
	Priority      *Lookup     `json:"priority,omitempty"`
	Complexity    *Lookup     `json:"complexity,omitempty"`
	AssignedTo    *Worker     `json:"assignedTo,omitempty"`
	Responsible   *Worker     `json:"responsible,omitempty"`
	Creator       *PublicUser `json:"creator,omitempty"`
	TimeEntries   []TimeEntry `json:"timeEntries,omitempty"`
}

type TimeEntry struct {
	ID            string      `json:"id"`
	TaskID        string      `json:"taskId"`
	UserProfileID string      `json:"userProfileId"`
	StartTime     time.Time   `json:"startTime"`
	EndTime       *time.Time  `json:"endTime"`
	Duration      *int        `json:"duration"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Task          *Task       `json:"task,omitempty"`
	User          *PublicUser `json:"user,omitempty"`
}

// Running reports whether the entry has no end time yet.
func (e TimeEntry) Running() bool {
	return e.EndTime == nil
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type WorkerList struct {
	Workers    []Worker   `json:"workers"`
	Pagination Pagination `json:"pagination"`
}

type TaskList struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

type TimeEntryList struct {
	TimeEntries []TimeEntry `json:"timeEntries"`
	Pagination  Pagination  `json:"pagination"`
}

type RegisterRequest struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	SecondName *string `json:"secondName,omitempty"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
}

type UpdateProfileRequest struct {
	FullName        *string `json:"fullName,omitempty"`
	Email           *string `json:"email,omitempty"`
	CurrentPassword string  `json:"currentPassword,omitempty"`
	NewPassword     string  `json:"newPassword,omitempty"`
}

type DepartmentRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type PositionRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	DepartmentID *int64  `json:"departmentId,omitempty"`
}

type WorkerRequest struct {
	FirstName     *string `json:"firstName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
	SecondName    *string `json:"secondName,omitempty"`
	DepartmentID  *int64  `json:"departmentId,omitempty"`
	PositionID    *int64  `json:"positionId,omitempty"`
	UserProfileID *string `json:"userProfileId,omitempty"`
}

type TaskRequest struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	ComplexityID  *int64     `json:"complexityId,omitempty"`
	PriorityID    *int64     `json:"priorityId,omitempty"`
	StatusID      *int64     `json:"statusId,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	AssignedToID  *int64     `json:"assignedToId,omitempty"`
	ResponsibleID *int64     `json:"responsibleId,omitempty"`
}

type StartTimerRequest struct {
	TaskID      string     `json:"taskId"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	Description string     `json:"description,omitempty"`
}

type TimeEntryRequest struct {
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// String and Int64 return pointers for the optional request fields.
func String(v string) *string { return &v }

func Int64(v int64) *int64 { return &v }

func Time(v time.Time) *time.Time { return &v }
