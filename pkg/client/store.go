package client

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrNoActiveTimer  = errors.New("no active timer")
	ErrTimerAlreadyOn = errors.New("a timer is already running")
)

// Store holds the state of one signed-in session. Getters return copies; the
// exported mutations are the only writers. Actions call the API and then apply
// the matching mutation.
type Store struct {
	api *Client

	mu          sync.RWMutex
	token       string
	user        *User
	profile     *Profile
	departments []Department
	positions   []Position
	workers     []Worker
	workersPage Pagination
	tasks       []Task
	tasksPage   Pagination
	entries     []TimeEntry
	entriesPage Pagination
	metadata    *Metadata
	activeTimer *TimeEntry
	loading     bool
	lastErr     error

	listenersMu sync.Mutex
	listeners   []func()
}

func NewStore(api *Client) *Store {
	return &Store{api: api}
}

// OnChange registers fn to run after every mutation.
func (s *Store) OnChange(fn func()) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

func (s *Store) notify() {
	s.listenersMu.Lock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

// Getters

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	return clonePtr(s.user, User.Clone)
}

func (s *Store) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	return clonePtr(s.profile, Profile.Clone)
}

func (s *Store) Departments() []Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.departments, Department.Clone)
}

func (s *Store) Positions() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.positions, Position.Clone)
}

func (s *Store) Workers() ([]Worker, Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.workers, Worker.Clone), s.workersPage
}

func (s *Store) Tasks() ([]Task, Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.tasks, Task.Clone), s.tasksPage
}

// Task returns the cached task with the given id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s *Store) TimeEntries() ([]TimeEntry, Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.entries, TimeEntry.Clone), s.entriesPage
}

func (s *Store) Metadata() *Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.metadata == nil {
		return nil
	}
	return clonePtr(s.metadata, Metadata.Clone)
}

func (s *Store) ActiveTimer() *TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeTimer == nil {
		return nil
	}
	return clonePtr(s.activeTimer, TimeEntry.Clone)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last tracked action, or nil when it succeeded.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Mutations

// track marks the store as loading while fn runs and records its error.
func (s *Store) track(fn func() error) error {
	s.mutate(func() {
		s.loading = true
		s.lastErr = nil
	})
	err := fn()
	s.mutate(func() {
		s.loading = false
		s.lastErr = err
	})
	return err
}

func (s *Store) SetAuth(token string, user User) {
	s.api.SetToken(token)
	s.mutate(func() {
		s.token = token
		s.user = clonePtr(&user, User.Clone)
	})
}

// ClearAuth signs out and drops every cached collection.
func (s *Store) ClearAuth() {
	s.api.SetToken("")
	s.mutate(func() {
		s.token = ""
		s.user = nil
		s.profile = nil
		s.departments = nil
		s.positions = nil
		s.workers, s.workersPage = nil, Pagination{}
		s.tasks, s.tasksPage = nil, Pagination{}
		s.entries, s.entriesPage = nil, Pagination{}
		s.metadata = nil
		s.activeTimer = nil
	})
}

func (s *Store) SetProfile(p Profile) {
	s.mutate(func() { s.profile = clonePtr(&p, Profile.Clone) })
}

func (s *Store) SetDepartments(items []Department) {
	s.mutate(func() { s.departments = cloneSlice(items, Department.Clone) })
}

func (s *Store) PutDepartment(d Department) {
	s.mutate(func() {
		s.departments = upsert(s.departments, d.Clone(), func(x Department) bool { return x.ID == d.ID })
	})
}

func (s *Store) RemoveDepartment(id int64) {
	s.mutate(func() {
		s.departments = slices.DeleteFunc(s.departments, func(x Department) bool { return x.ID == id })
	})
}

func (s *Store) SetPositions(items []Position) {
	s.mutate(func() { s.positions = cloneSlice(items, Position.Clone) })
}

func (s *Store) PutPosition(p Position) {
	s.mutate(func() {
		s.positions = upsert(s.positions, p.Clone(), func(x Position) bool { return x.ID == p.ID })
	})
}

func (s *Store) RemovePosition(id int64) {
	s.mutate(func() {
		s.positions = slices.DeleteFunc(s.positions, func(x Position) bool { return x.ID == id })
	})
}

func (s *Store) SetWorkers(items []Worker, page Pagination) {
	s.mutate(func() { s.workers, s.workersPage = cloneSlice(items, Worker.Clone), page })
}

func (s *Store) PutWorker(w Worker) {
	s.mutate(func() {
		s.workers = upsert(s.workers, w.Clone(), func(x Worker) bool { return x.ID == w.ID })
	})
}

func (s *Store) RemoveWorker(id int64) {
	s.mutate(func() {
		s.workers = slices.DeleteFunc(s.workers, func(x Worker) bool { return x.ID == id })
	})
}

func (s *Store) SetTasks(items []Task, page Pagination) {
	s.mutate(func() { s.tasks, s.tasksPage = cloneSlice(items, Task.Clone), page })
}

func (s *Store) PutTask(t Task) {
	s.mutate(func() {
		s.tasks = upsert(s.tasks, t.Clone(), func(x Task) bool { return x.ID == t.ID })
	})
}

// RemoveTask drops the task and the cached time entries that belonged to it.
func (s *Store) RemoveTask(id string) {
	s.mutate(func() {
		s.tasks = slices.DeleteFunc(s.tasks, func(x Task) bool { return x.ID == id })
		s.entries = slices.DeleteFunc(s.entries, func(x TimeEntry) bool { return x.TaskID == id })
		if s.activeTimer != nil && s.activeTimer.TaskID == id {
			s.activeTimer = nil
		}
	})
}

func (s *Store) SetMetadata(m Metadata) {
	s.mutate(func() { s.metadata = clonePtr(&m, Metadata.Clone) })
}

// SetTimeEntries replaces the cached entries and picks up the signed-in user's
// running entry when the page contains it. An active timer that the page shows
// as stopped is cleared.
func (s *Store) SetTimeEntries(items []TimeEntry, page Pagination) {
	s.setTimeEntries(items, page, false)
}

// setTimeEntries also clears the active timer when complete is set, meaning
// items holds every entry of the signed-in user.
func (s *Store) setTimeEntries(items []TimeEntry, page Pagination, complete bool) {
	s.mutate(func() {
		s.entries, s.entriesPage = cloneSlice(items, TimeEntry.Clone), page
		if s.user == nil {
			return
		}
		i := slices.IndexFunc(s.entries, func(e TimeEntry) bool { return e.Running() && e.UserProfileID == s.user.ID })
		switch {
		case i >= 0:
			s.activeTimer = clonePtr(&s.entries[i], TimeEntry.Clone)
		case complete:
			s.activeTimer = nil
		case s.activeTimer != nil && slices.ContainsFunc(s.entries, func(e TimeEntry) bool { return e.ID == s.activeTimer.ID }):
			s.activeTimer = nil
		}
	})
}

// PutTimeEntry caches e and keeps the active timer in step with it.
func (s *Store) PutTimeEntry(e TimeEntry) {
	s.mutate(func() {
		s.entries = upsert(s.entries, e.Clone(), func(x TimeEntry) bool { return x.ID == e.ID })
		switch {
		case e.Running() && s.user != nil && e.UserProfileID == s.user.ID:
			s.activeTimer = clonePtr(&e, TimeEntry.Clone)
		case s.activeTimer != nil && s.activeTimer.ID == e.ID:
			s.activeTimer = nil
		}
	})
}

func (s *Store) RemoveTimeEntry(id string) {
	s.mutate(func() {
		s.entries = slices.DeleteFunc(s.entries, func(x TimeEntry) bool { return x.ID == id })
		if s.activeTimer != nil && s.activeTimer.ID == id {
			s.activeTimer = nil
		}
	})
}

// upsert replaces the first element matching same, or prepends item.
func upsert[T any](items []T, item T, same func(T) bool) []T {
	if i := slices.IndexFunc(items, same); i >= 0 {
		out := slices.Clone(items)
		out[i] = item
		return out
	}
	return append([]T{item}, items...)
}

// Actions

func (s *Store) Register(ctx context.Context, req RegisterRequest) error {
	return s.track(func() error {
		resp, err := s.api.Register(ctx, req)
		if err != nil {
			return err
		}
		s.SetAuth(resp.Token, resp.User)
		return nil
	})
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.track(func() error {
		resp, err := s.api.Login(ctx, email, password)
		if err != nil {
			return err
		}
		s.SetAuth(resp.Token, resp.User)
		return nil
	})
}

func (s *Store) Logout() {
	s.ClearAuth()
}

func (s *Store) FetchProfile(ctx context.Context) error {
	return s.track(func() error {
		if !s.IsAuthenticated() {
			return ErrNotSignedIn
		}
		p, err := s.api.Profile(ctx)
		if err != nil {
			return err
		}
		s.SetProfile(*p)
		return nil
	})
}

func (s *Store) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	p, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	s.SetProfile(*p)
	return nil
}

func (s *Store) FetchDepartments(ctx context.Context, search string) error {
	return s.track(func() error {
		items, err := s.api.ListDepartments(ctx, search)
		if err != nil {
			return err
		}
		s.SetDepartments(items)
		return nil
	})
}

func (s *Store) CreateDepartment(ctx context.Context, req DepartmentRequest) (*Department, error) {
	d, err := s.api.CreateDepartment(ctx, req)
	if err != nil {
		return nil, err
	}
	s.PutDepartment(*d)
	return d, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, id int64, req DepartmentRequest) (*Department, error) {
	d, err := s.api.UpdateDepartment(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.PutDepartment(*d)
	return d, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.api.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	s.RemoveDepartment(id)
	return nil
}

func (s *Store) FetchPositions(ctx context.Context, filter PositionFilter) error {
	return s.track(func() error {
		items, err := s.api.ListPositions(ctx, filter)
		if err != nil {
			return err
		}
		s.SetPositions(items)
		return nil
	})
}

func (s *Store) CreatePosition(ctx context.Context, req PositionRequest) (*Position, error) {
	p, err := s.api.CreatePosition(ctx, req)
	if err != nil {
		return nil, err
	}
	s.PutPosition(*p)
	return p, nil
}

func (s *Store) UpdatePosition(ctx context.Context, id int64, req PositionRequest) (*Position, error) {
	p, err := s.api.UpdatePosition(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.PutPosition(*p)
	return p, nil
}

func (s *Store) DeletePosition(ctx context.Context, id int64) error {
	if err := s.api.DeletePosition(ctx, id); err != nil {
		return err
	}
	s.RemovePosition(id)
	return nil
}

func (s *Store) FetchWorkers(ctx context.Context, filter WorkerFilter) error {
	return s.track(func() error {
		list, err := s.api.ListWorkers(ctx, filter)
		if err != nil {
			return err
		}
		s.SetWorkers(list.Workers, list.Pagination)
		return nil
	})
}

func (s *Store) CreateWorker(ctx context.Context, req WorkerRequest) (*Worker, error) {
	w, err := s.api.CreateWorker(ctx, req)
	if err != nil {
		return nil, err
	}
	s.PutWorker(*w)
	return w, nil
}

func (s *Store) UpdateWorker(ctx context.Context, id int64, req WorkerRequest) (*Worker, error) {
	w, err := s.api.UpdateWorker(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.PutWorker(*w)
	return w, nil
}

func (s *Store) DeleteWorker(ctx context.Context, id int64) error {
	if err := s.api.DeleteWorker(ctx, id); err != nil {
		return err
	}
	s.RemoveWorker(id)
	return nil
}

func (s *Store) FetchMetadata(ctx context.Context) error {
	return s.track(func() error {
		m, err := s.api.TaskMetadata(ctx)
		if err != nil {
			return err
		}
		s.SetMetadata(*m)
		return nil
	})
}

func (s *Store) FetchTasks(ctx context.Context, filter TaskFilter) error {
	return s.track(func() error {
		list, err := s.api.ListTasks(ctx, filter)
		if err != nil {
			return err
		}
		s.SetTasks(list.Tasks, list.Pagination)
		return nil
	})
}

// RefreshTask reloads one task, picking up a recomputed timeSpent.
func (s *Store) RefreshTask(ctx context.Context, id string) (*Task, error) {
	t, err := s.api.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.PutTask(*t)
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, req TaskRequest) (*Task, error) {
	t, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	s.PutTask(*t)
	return t, nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, req TaskRequest) (*Task, error) {
	t, err := s.api.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.PutTask(*t)
	return t, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id string, statusID int64) (*Task, error) {
	t, err := s.api.UpdateTaskStatus(ctx, id, statusID)
	if err != nil {
		return nil, err
	}
	s.PutTask(*t)
	return t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.RemoveTask(id)
	return nil
}

func (s *Store) FetchTimeEntries(ctx context.Context, filter TimeEntryFilter) error {
	return s.track(func() error {
		list, err := s.api.ListTimeEntries(ctx, filter)
		if err != nil {
			return err
		}
		s.setTimeEntries(list.TimeEntries, list.Pagination, s.coversOwnEntries(filter, list.Pagination))
		return nil
	})
}

// coversOwnEntries reports whether a page fetched with filter holds every entry
// of the signed-in user.
func (s *Store) coversOwnEntries(filter TimeEntryFilter, page Pagination) bool {
	user := s.User()
	if user == nil || filter.Task != "" || filter.Search != "" || filter.StartDate != nil || filter.EndDate != nil {
		return false
	}
	if filter.User != "" && filter.User != user.ID {
		return false
	}
	return filter.Page <= 1 && page.Pages <= 1
}

// StartTimer starts a running entry on taskID. It fails locally when the store
// already knows of a running timer; the server enforces the same rule.
func (s *Store) StartTimer(ctx context.Context, taskID, description string) (*TimeEntry, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}
	if s.ActiveTimer() != nil {
		return nil, ErrTimerAlreadyOn
	}
	e, err := s.api.StartTimer(ctx, StartTimerRequest{TaskID: taskID, Description: description})
	if err != nil {
		return nil, err
	}
	s.PutTimeEntry(*e)
	return e, nil
}

// StopTimer stops the active timer and refreshes its task's timeSpent.
func (s *Store) StopTimer(ctx context.Context) (*TimeEntry, error) {
	active := s.ActiveTimer()
	if active == nil {
		return nil, ErrNoActiveTimer
	}
	e, err := s.api.StopTimer(ctx, active.ID)
	if err != nil {
		return nil, err
	}
	s.PutTimeEntry(*e)
	if _, err := s.RefreshTask(ctx, e.TaskID); err != nil {
		return e, err
	}
	return e, nil
}

func (s *Store) UpdateTimeEntry(ctx context.Context, id string, req TimeEntryRequest) (*TimeEntry, error) {
	e, err := s.api.UpdateTimeEntry(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.PutTimeEntry(*e)
	if _, err := s.RefreshTask(ctx, e.TaskID); err != nil {
		return e, err
	}
	return e, nil
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id string) error {
	var taskID string
	s.mu.RLock()
	if i := slices.IndexFunc(s.entries, func(x TimeEntry) bool { return x.ID == id }); i >= 0 {
		taskID = s.entries[i].TaskID
	}
	s.mu.RUnlock()

	if err := s.api.DeleteTimeEntry(ctx, id); err != nil {
		return err
	}
	s.RemoveTimeEntry(id)
	if taskID != "" {
		if _, err := s.RefreshTask(ctx, taskID); err != nil {
			return err
		}
	}
	return nil
}
