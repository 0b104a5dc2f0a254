package timeentry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/events"
)

var ErrTimeEntryNotFound = errors.New("time entry not found")

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]datamodel.TimeEntry, int64, error)
	GetByID(ctx context.Context, id string) (*datamodel.TimeEntry, error)
	GetDetail(ctx context.Context, id string) (*datamodel.TimeEntry, error)
	TaskExists(ctx context.Context, id string) (bool, error)
	HasRunning(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, e *datamodel.TimeEntry) error
	Update(ctx context.Context, e *datamodel.TimeEntry) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func notFound() *internal.AppError {
	return internal.NewNotFoundError("Time entry not found", internal.ErrCodeTimeEntryNotFound)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err)
		return nil, internal.NewInternalError("failed to list time entries", err)
	}
	return &ListResponse{
		TimeEntries: FromDataModels(rows),
		Pagination:  pagination.NewMeta(total, filter.Page),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*TimeEntryResponse, error) {
	e, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTimeEntryNotFound) {
			return nil, notFound()
		}
		s.logger.Error("failed to get time entry", "error", err, "time_entry_id", id)
		return nil, internal.NewInternalError("failed to get time entry", err)
	}
	return FromDataModel(e), nil
}

// owned loads the entry and checks it belongs to userID. verb names the attempted action in the 403.
func (s *Service) owned(ctx context.Context, id, userID, verb string) (*datamodel.TimeEntry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTimeEntryNotFound) {
			return nil, notFound()
		}
		return nil, internal.NewInternalError("failed to "+verb+" time entry", err)
	}
	if e.UserProfileID != userID {
		return nil, internal.NewForbiddenError("Cannot "+verb+" another user's time entry", internal.ErrCodeNotTimeEntryOwner)
	}
	return e, nil
}

func (s *Service) publish(ctx context.Context, e *datamodel.TimeEntry, action string) error {
	event := events.NewTimeEntryChangedEvent(e.ID, e.TaskID, e.UserProfileID, action)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to recalculate task time spent", "error", err, "task_id", e.TaskID, "action", action)
		return internal.NewInternalError("failed to update task time spent", err)
	}
	if err := s.publisher.Publish(ctx, event.Recorded()); err != nil {
		s.logger.Warn("failed to publish time entry record", "error", err, "time_entry_id", e.ID)
	}
	return nil
}

// Create starts a timer for userID. A user runs at most one timer at a time.
func (s *Service) Create(ctx context.Context, userID string, dto CreateTimeEntryDTO) (*TimeEntryResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.repo.TaskExists(ctx, dto.TaskID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check task", err)
	}
	if !ok {
		return nil, internal.NewValidationFieldError("taskId", "Task not found", internal.ErrCodeInvalidReference)
	}

	running, err := s.repo.HasRunning(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check active time entry", err)
	}
	if running {
		return nil, internal.NewValidationFieldError("startTime", "You already have an active time entry", internal.ErrCodeTimerAlreadyRunning)
	}

	e := &datamodel.TimeEntry{
		TaskID:        dto.TaskID,
		UserProfileID: userID,
		StartTime:     s.now(),
		Description:   dto.Description,
	}
	if dto.StartTime != nil {
		e.StartTime = dto.StartTime.UTC()
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create time entry", "error", err, "task_id", dto.TaskID)
		return nil, internal.NewInternalError("failed to create time entry", err)
	}

	s.logger.Info("timer started", "time_entry_id", e.ID, "task_id", e.TaskID, "user_id", userID)
	if err := s.publish(ctx, e, events.TimeEntryCreated); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, e.ID)
}

// StopTimer ends a running entry now and records its rounded duration.
func (s *Service) StopTimer(ctx context.Context, userID, id string) (*TimeEntryResponse, error) {
	e, err := s.owned(ctx, id, userID, "stop")
	if err != nil {
		return nil, err
	}
	if !e.Running() {
		return nil, internal.NewValidationFieldError("endTime", "Time entry is already stopped", internal.ErrCodeTimerAlreadyStopped)
	}

	end := s.now()
	duration := DurationMinutes(e.StartTime, end)
	e.EndTime = &end
	e.Duration = &duration
	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("failed to stop time entry", "error", err, "time_entry_id", id)
		return nil, internal.NewInternalError("failed to stop time entry", err)
	}

	s.logger.Info("timer stopped", "time_entry_id", id, "duration_minutes", duration)
	if err := s.publish(ctx, e, events.TimeEntryStopped); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, userID, id string, dto UpdateTimeEntryDTO) (*TimeEntryResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.owned(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	if dto.StartTime != nil {
		e.StartTime = dto.StartTime.UTC()
	}
	if dto.EndTime != nil {
		end := dto.EndTime.UTC()
		e.EndTime = &end
	}
	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if e.EndTime != nil {
		if e.EndTime.Before(e.StartTime) {
			return nil, internal.NewValidationFieldError("endTime", "endTime cannot be before startTime", internal.ErrCodeInvalidDate)
		}
		duration := DurationMinutes(e.StartTime, *e.EndTime)
		e.Duration = &duration
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("failed to update time entry", "error", err, "time_entry_id", id)
		return nil, internal.NewInternalError("failed to update time entry", err)
	}

	if e.EndTime != nil {
		if err := s.publish(ctx, e, events.TimeEntryUpdated); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	e, err := s.owned(ctx, id, userID, "delete")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete time entry", "error", err, "time_entry_id", id)
		return internal.NewInternalError("failed to delete time entry", err)
	}

	s.logger.Info("time entry deleted", "time_entry_id", id, "task_id", e.TaskID)
	return s.publish(ctx, e, events.TimeEntryDeleted)
}
