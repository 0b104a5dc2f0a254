package client

// Clone methods copy every pointer and slice so the Store never shares memory
// with its callers.

func clonePtr[T any](p *T, clone func(T) T) *T {
	if p == nil {
		return nil
	}
	v := clone(*p)
	return &v
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

func (u User) Clone() User {
	u.SecondName = copyPtr(u.SecondName)
	return u
}

func (p Profile) Clone() Profile {
	p.SecondName = copyPtr(p.SecondName)
	p.WorkerProfile = clonePtr(p.WorkerProfile, Worker.Clone)
	return p
}

func (d Department) Clone() Department {
	d.Positions = cloneSlice(d.Positions, Position.Clone)
	d.Workers = cloneSlice(d.Workers, Worker.Clone)
	return d
}

func (p Position) Clone() Position {
	p.Department = clonePtr(p.Department, Department.Clone)
	p.Workers = cloneSlice(p.Workers, Worker.Clone)
	return p
}

func (w Worker) Clone() Worker {
	w.SecondName = copyPtr(w.SecondName)
	w.UserProfileID = copyPtr(w.UserProfileID)
	w.Department = clonePtr(w.Department, Department.Clone)
	w.Position = clonePtr(w.Position, Position.Clone)
	w.UserProfile = copyPtr(w.UserProfile)
	w.AssignedTasks = cloneSlice(w.AssignedTasks, Task.Clone)
	w.ResponsibleTasks = cloneSlice(w.ResponsibleTasks, Task.Clone)
	return w
}

func (m Metadata) Clone() Metadata {
	m.Statuses = cloneSlice(m.Statuses, func(l Lookup) Lookup { return l })
	m.Priorities = cloneSlice(m.Priorities, func(l Lookup) Lookup { return l })
	m.Complexities = cloneSlice(m.Complexities, func(l Lookup) Lookup { return l })
	return m
}

func (t Task) Clone() Task {
	t.Deadline = copyPtr(t.Deadline)
	t.Status = copyPtr(t.Status)
	t.Priority = copyPtr(t.Priority)
	t.Complexity = copyPtr(t.Complexity)
	t.AssignedTo = clonePtr(t.AssignedTo, Worker.Clone)
	t.Responsible = clonePtr(t.Responsible, Worker.Clone)
	t.Creator = copyPtr(t.Creator)
	t.TimeEntries = cloneSlice(t.TimeEntries, TimeEntry.Clone)
	return t
}

func (e TimeEntry) Clone() TimeEntry {
	e.EndTime = copyPtr(e.EndTime)
	e.Duration = copyPtr(e.Duration)
	e.Task = clonePtr(e.Task, Task.Clone)
	e.User = copyPtr(e.User)
	return e
}
