package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/cache"
	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/events"
)

var ErrTaskNotFound = errors.New("task not found")

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]datamodel.Task, int64, error)
	GetByID(ctx context.Context, id string) (*datamodel.Task, error)
	GetDetail(ctx context.Context, id string) (*datamodel.Task, error)
	StatusExists(ctx context.Context, id int64) (bool, error)
	PriorityExists(ctx context.Context, id int64) (bool, error)
	ComplexityExists(ctx context.Context, id int64) (bool, error)
	WorkerExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *datamodel.Task) error
	Update(ctx context.Context, t *datamodel.Task) error
	UpdateStatus(ctx context.Context, id string, statusID int64) error
	Delete(ctx context.Context, id string) error
	ListStatuses(ctx context.Context) ([]datamodel.TaskStatus, error)
	ListPriorities(ctx context.Context) ([]datamodel.TaskPriority, error)
	ListComplexities(ctx context.Context) ([]datamodel.TaskComplexity, error)
	SumDurations(ctx context.Context, taskID string) (int64, error)
	SetTimeSpent(ctx context.Context, taskID string, hours float64) error
}

const metadataCacheKey = "tasks:metadata"

type Service struct {
	repo     RepositoryAPI
	logger   *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// WithCache serves GetMetadata from c for ttl after the first load.
func (s *Service) WithCache(c cache.Cache, ttl time.Duration) *Service {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

func notFound() *internal.AppError {
	return internal.NewNotFoundError("Task not found", internal.ErrCodeTaskNotFound)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, internal.NewInternalError("failed to list tasks", err)
	}
	return &ListResponse{
		Tasks:      FromDataModels(rows),
		Pagination: pagination.NewMeta(total, filter.Page),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*TaskResponse, error) {
	t, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, notFound()
		}
		s.logger.Error("failed to get task", "error", err, "task_id", id)
		return nil, internal.NewInternalError("failed to get task", err)
	}
	return FromDataModel(t), nil
}

type reference struct {
	field   string
	message string
	id      *int64
	exists  func(ctx context.Context, id int64) (bool, error)
}

// checkReferences validates the non-nil ids in order and reports the first missing one.
func (s *Service) checkReferences(ctx context.Context, refs ...reference) error {
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := ref.exists(ctx, *ref.id)
		if err != nil {
			return internal.NewInternalError("failed to check "+ref.field, err)
		}
		if !ok {
			return internal.NewValidationFieldError(ref.field, ref.message, internal.ErrCodeInvalidReference)
		}
	}
	return nil
}

func (s *Service) statusRef(id *int64) reference {
	return reference{field: "statusId", message: "Status not found", id: id, exists: s.repo.StatusExists}
}

func (s *Service) priorityRef(id *int64) reference {
	return reference{field: "priorityId", message: "Priority not found", id: id, exists: s.repo.PriorityExists}
}

func (s *Service) complexityRef(id *int64) reference {
	return reference{field: "complexityId", message: "Complexity not found", id: id, exists: s.repo.ComplexityExists}
}

func (s *Service) assignedToRef(id *int64) reference {
	return reference{field: "assignedToId", message: "Assigned worker not found", id: id, exists: s.repo.WorkerExists}
}

func (s *Service) responsibleRef(id *int64) reference {
	return reference{field: "responsibleId", message: "Responsible worker not found", id: id, exists: s.repo.WorkerExists}
}

func (s *Service) Create(ctx context.Context, createdByID string, dto CreateTaskDTO) (*TaskResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	err := s.checkReferences(ctx,
		s.statusRef(&dto.StatusID),
		s.priorityRef(&dto.PriorityID),
		s.complexityRef(&dto.ComplexityID),
		s.assignedToRef(&dto.AssignedToID),
		s.responsibleRef(&dto.ResponsibleID),
	)
	if err != nil {
		return nil, err
	}

	t := &datamodel.Task{
		Name:          dto.Name,
		Description:   dto.Description,
		ComplexityID:  dto.ComplexityID,
		PriorityID:    dto.PriorityID,
		StatusID:      dto.StatusID,
		Deadline:      dto.Deadline,
		AssignedToID:  dto.AssignedToID,
		ResponsibleID: dto.ResponsibleID,
		CreatedByID:   createdByID,
	}
	if dto.StartDate != nil {
		t.StartDate = *dto.StartDate
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create task", "error", err)
		return nil, internal.NewInternalError("failed to create task", err)
	}

	s.logger.Info("task created", "task_id", t.ID, "created_by", createdByID)
	return s.GetByID(ctx, t.ID)
}

// changed returns next when it is set and differs from current.
func changed(next *int64, current int64) *int64 {
	if next == nil || *next == current {
		return nil
	}
	return next
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateTaskDTO) (*TaskResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, notFound()
		}
		return nil, internal.NewInternalError("failed to update task", err)
	}

	err = s.checkReferences(ctx,
		s.statusRef(changed(dto.StatusID, t.StatusID)),
		s.priorityRef(changed(dto.PriorityID, t.PriorityID)),
		s.complexityRef(changed(dto.ComplexityID, t.ComplexityID)),
		s.assignedToRef(changed(dto.AssignedToID, t.AssignedToID)),
		s.responsibleRef(changed(dto.ResponsibleID, t.ResponsibleID)),
	)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		t.Name = *dto.Name
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.StatusID != nil {
		t.StatusID = *dto.StatusID
	}
	if dto.PriorityID != nil {
		t.PriorityID = *dto.PriorityID
	}
	if dto.ComplexityID != nil {
		t.ComplexityID = *dto.ComplexityID
	}
	if dto.AssignedToID != nil {
		t.AssignedToID = *dto.AssignedToID
	}
	if dto.ResponsibleID != nil {
		t.ResponsibleID = *dto.ResponsibleID
	}
	if dto.StartDate != nil {
		t.StartDate = *dto.StartDate
	}
	if dto.Deadline != nil {
		t.Deadline = dto.Deadline
	}
	if t.Deadline != nil && t.Deadline.Before(t.StartDate) {
		return nil, internal.NewValidationFieldError("deadline", "deadline cannot be before startDate", internal.ErrCodeInvalidDate)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, internal.NewInternalError("failed to update task", err)
	}

	return s.GetByID(ctx, t.ID)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*TaskResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, notFound()
		}
		return nil, internal.NewInternalError("failed to update task status", err)
	}
	if err := s.checkReferences(ctx, s.statusRef(&dto.StatusID)); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, dto.StatusID); err != nil {
		s.logger.Error("failed to update task status", "error", err, "task_id", id)
		return nil, internal.NewInternalError("failed to update task status", err)
	}

	s.logger.Info("task status changed", "task_id", id, "status_id", dto.StatusID)
	return s.GetByID(ctx, id)
}

// Delete removes the task together with its time entries.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return notFound()
		}
		return internal.NewInternalError("failed to delete task", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return internal.NewInternalError("failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

func (s *Service) GetMetadata(ctx context.Context) (*MetadataResponse, error) {
	if meta, ok := s.cachedMetadata(ctx); ok {
		return meta, nil
	}

	meta, err := s.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(meta); err == nil {
			if err := s.cache.Set(ctx, metadataCacheKey, data, s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache task metadata", "error", err)
			}
		}
	}
	return meta, nil
}

// InvalidateMetadata drops the cached lookups so the next GetMetadata reads the database.
func (s *Service) InvalidateMetadata(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, metadataCacheKey); err != nil {
		return fmt.Errorf("failed to invalidate task metadata: %w", err)
	}
	return nil
}

func (s *Service) cachedMetadata(ctx context.Context) (*MetadataResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, metadataCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("failed to read cached task metadata", "error", err)
		}
		return nil, false
	}
	var meta MetadataResponse
	if err := json.Unmarshal(data, &meta); err != nil {
		s.logger.Warn("discarding unreadable task metadata cache entry", "error", err)
		return nil, false
	}
	return &meta, true
}

func (s *Service) loadMetadata(ctx context.Context) (*MetadataResponse, error) {
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load task statuses", err)
	}
	priorities, err := s.repo.ListPriorities(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load task priorities", err)
	}
	complexities, err := s.repo.ListComplexities(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load task complexities", err)
	}

	return &MetadataResponse{
		Statuses:     lookupsOf(statuses, func(row *datamodel.TaskStatus) *datamodel.Lookup { return &row.Lookup }),
		Priorities:   lookupsOf(priorities, func(p *datamodel.TaskPriority) *datamodel.Lookup { return &p.Lookup }),
		Complexities: lookupsOf(complexities, func(c *datamodel.TaskComplexity) *datamodel.Lookup { return &c.Lookup }),
	}, nil
}

// RecalculateTimeSpent stores the summed entry durations of a task, in hours.
func (s *Service) RecalculateTimeSpent(ctx context.Context, taskID string) error {
	minutes, err := s.repo.SumDurations(ctx, taskID)
	if err != nil {
		return fmt.Errorf("sum durations of task %s: %w", taskID, err)
	}
	hours := HoursFromMinutes(minutes)
	if err := s.repo.SetTimeSpent(ctx, taskID, hours); err != nil {
		return fmt.Errorf("set time spent of task %s: %w", taskID, err)
	}
	s.logger.Debug("task time spent recalculated", "task_id", taskID, "hours", hours)
	return nil
}

// SubscribeTimeEntryEvents keeps timeSpent in step with the task's time entries.
func (s *Service) SubscribeTimeEntryEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeTimeEntryChanged, func(ctx context.Context, event events.Event) error {
		entry, ok := event.(*events.TimeEntryChangedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload %T", event)
		}
		return s.RecalculateTimeSpent(ctx, entry.TaskID)
	})
}
