package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type messageResponse struct {
	Message string `json:"message"`
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// Auth

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Departments

func (c *Client) ListDepartments(ctx context.Context, search string) ([]Department, error) {
	q := url.Values{}
	setString(q, "search", search)
	var out []Department
	if err := c.do(ctx, http.MethodGet, "/api/departments", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	var out Department
	if err := c.do(ctx, http.MethodGet, idPath("/api/departments", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDepartment(ctx context.Context, req DepartmentRequest) (*Department, error) {
	var out Department
	if err := c.do(ctx, http.MethodPost, "/api/departments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id int64, req DepartmentRequest) (*Department, error) {
	var out Department
	if err := c.do(ctx, http.MethodPut, idPath("/api/departments", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/departments", id), nil, nil, &messageResponse{})
}

// Positions

func (c *Client) ListPositions(ctx context.Context, filter PositionFilter) ([]Position, error) {
	q := url.Values{}
	setString(q, "search", filter.Search)
	setInt(q, "department", filter.Department)
	var out []Position
	if err := c.do(ctx, http.MethodGet, "/api/positions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPosition(ctx context.Context, id int64) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodGet, idPath("/api/positions", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePosition(ctx context.Context, req PositionRequest) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPost, "/api/positions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePosition(ctx context.Context, id int64, req PositionRequest) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPut, idPath("/api/positions", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePosition(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/positions", id), nil, nil, &messageResponse{})
}

// Workers

func (c *Client) ListWorkers(ctx context.Context, filter WorkerFilter) (*WorkerList, error) {
	q := filter.values()
	setInt(q, "department", filter.Department)
	setInt(q, "position", filter.Position)
	var out WorkerList
	if err := c.do(ctx, http.MethodGet, "/api/workers", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWorker(ctx context.Context, id int64) (*Worker, error) {
	var out Worker
	if err := c.do(ctx, http.MethodGet, idPath("/api/workers", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWorker(ctx context.Context, req WorkerRequest) (*Worker, error) {
	var out Worker
	if err := c.do(ctx, http.MethodPost, "/api/workers", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorker(ctx context.Context, id int64, req WorkerRequest) (*Worker, error) {
	var out Worker
	if err := c.do(ctx, http.MethodPut, idPath("/api/workers", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorker(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/workers", id), nil, nil, &messageResponse{})
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) (*TaskList, error) {
	q := filter.values()
	setInt(q, "status", filter.Status)
	setInt(q, "priority", filter.Priority)
	setInt(q, "complexity", filter.Complexity)
	setInt(q, "assignedTo", filter.AssignedTo)
	setInt(q, "responsible", filter.Responsible)
	var out TaskList
	if err := c.do(ctx, http.MethodGet, "/api/tasks", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req TaskRequest) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, statusID int64) (*Task, error) {
	body := map[string]int64{"statusId": statusID}
	var out Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%s/status", url.PathEscape(id)), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, &messageResponse{})
}

func (c *Client) TaskMetadata(ctx context.Context) (*Metadata, error) {
	var out Metadata
	if err := c.do(ctx, http.MethodGet, "/api/tasks/metadata", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) lookups(ctx context.Context, path string) ([]Lookup, error) {
	var out []Lookup
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TaskStatuses(ctx context.Context) ([]Lookup, error) {
	return c.lookups(ctx, "/api/tasks/statuses")
}

func (c *Client) TaskPriorities(ctx context.Context) ([]Lookup, error) {
	return c.lookups(ctx, "/api/tasks/priorities")
}

func (c *Client) TaskComplexities(ctx context.Context) ([]Lookup, error) {
	return c.lookups(ctx, "/api/tasks/complexities")
}

// Time entries

func (c *Client) ListTimeEntries(ctx context.Context, filter TimeEntryFilter) (*TimeEntryList, error) {
	q := filter.values()
	setString(q, "task", filter.Task)
	setString(q, "user", filter.User)
	setTime(q, "startDate", filter.StartDate)
	setTime(q, "endDate", filter.EndDate)
	var out TimeEntryList
	if err := c.do(ctx, http.MethodGet, "/api/time-entries", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTimeEntry(ctx context.Context, id string) (*TimeEntry, error) {
	var out TimeEntry
	if err := c.do(ctx, http.MethodGet, "/api/time-entries/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartTimer creates a running time entry for the signed-in user.
func (c *Client) StartTimer(ctx context.Context, req StartTimerRequest) (*TimeEntry, error) {
	var out TimeEntry
	if err := c.do(ctx, http.MethodPost, "/api/time-entries", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StopTimer(ctx context.Context, id string) (*TimeEntry, error) {
	var out TimeEntry
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/time-entries/%s/stop", url.PathEscape(id)), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTimeEntry(ctx context.Context, id string, req TimeEntryRequest) (*TimeEntry, error) {
	var out TimeEntry
	if err := c.do(ctx, http.MethodPut, "/api/time-entries/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTimeEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/time-entries/"+url.PathEscape(id), nil, nil, &messageResponse{})
}
