package worker

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
)

var ErrWorkerNotFound = errors.New("worker not found")

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]datamodel.Worker, int64, error)
	GetByID(ctx context.Context, id int64) (*datamodel.Worker, error)
	GetDetail(ctx context.Context, id int64) (*datamodel.Worker, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	PositionExists(ctx context.Context, id int64) (bool, error)
	UserProfileExists(ctx context.Context, id string) (bool, error)
	UserProfileLinked(ctx context.Context, userProfileID string, exceptID int64) (bool, error)
	HasTasks(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, w *datamodel.Worker) error
	Update(ctx context.Context, w *datamodel.Worker) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func notFound() *internal.AppError {
	return internal.NewNotFoundError("Worker not found", internal.ErrCodeWorkerNotFound)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list workers", "error", err)
		return nil, internal.NewInternalError("failed to list workers", err)
	}
	return &ListResponse{
		Workers:    FromDataModels(rows),
		Pagination: pagination.NewMeta(total, filter.Page),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*WorkerResponse, error) {
	w, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkerNotFound) {
			return nil, notFound()
		}
		s.logger.Error("failed to get worker", "error", err, "worker_id", id)
		return nil, internal.NewInternalError("failed to get worker", err)
	}
	return FromDataModel(w), nil
}

// references lists which foreign keys of a worker need to be re-validated.
type references struct {
	departmentID  *int64
	positionID    *int64
	userProfileID *string
}

func (s *Service) checkReferences(ctx context.Context, refs references, workerID int64) error {
	if refs.departmentID != nil {
		ok, err := s.repo.DepartmentExists(ctx, *refs.departmentID)
		if err != nil {
			return internal.NewInternalError("failed to check department", err)
		}
		if !ok {
			return internal.NewValidationFieldError("departmentId", "Department not found", internal.ErrCodeInvalidReference)
		}
	}
	if refs.positionID != nil {
		ok, err := s.repo.PositionExists(ctx, *refs.positionID)
		if err != nil {
			return internal.NewInternalError("failed to check position", err)
		}
		if !ok {
			return internal.NewValidationFieldError("positionId", "Position not found", internal.ErrCodeInvalidReference)
		}
	}
	if refs.userProfileID != nil {
		ok, err := s.repo.UserProfileExists(ctx, *refs.userProfileID)
		if err != nil {
			return internal.NewInternalError("failed to check user profile", err)
		}
		if !ok {
			return internal.NewValidationFieldError("userProfileId", "User profile not found", internal.ErrCodeInvalidReference)
		}
		linked, err := s.repo.UserProfileLinked(ctx, *refs.userProfileID, workerID)
		if err != nil {
			return internal.NewInternalError("failed to check user profile", err)
		}
		if linked {
			return internal.NewValidationFieldError("userProfileId", "User profile is already associated with a worker", internal.ErrCodeDuplicateValue)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto CreateWorkerDTO) (*WorkerResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	refs := references{departmentID: &dto.DepartmentID, positionID: &dto.PositionID, userProfileID: dto.UserProfileID}
	if err := s.checkReferences(ctx, refs, 0); err != nil {
		return nil, err
	}

	w := &datamodel.Worker{
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		SecondName:    dto.SecondName,
		DepartmentID:  dto.DepartmentID,
		PositionID:    dto.PositionID,
		UserProfileID: dto.UserProfileID,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		s.logger.Error("failed to create worker", "error", err)
		return nil, internal.NewInternalError("failed to create worker", err)
	}

	s.logger.Info("worker created", "worker_id", w.ID)
	return s.GetByID(ctx, w.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateWorkerDTO) (*WorkerResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkerNotFound) {
			return nil, notFound()
		}
		return nil, internal.NewInternalError("failed to update worker", err)
	}

	var refs references
	if dto.DepartmentID != nil && *dto.DepartmentID != w.DepartmentID {
		refs.departmentID = dto.DepartmentID
		w.DepartmentID = *dto.DepartmentID
	}
	if dto.PositionID != nil && *dto.PositionID != w.PositionID {
		refs.positionID = dto.PositionID
		w.PositionID = *dto.PositionID
	}
	if dto.UserProfileID != nil {
		next := strings.TrimSpace(*dto.UserProfileID)
		switch {
		case next == "":
			w.UserProfileID = nil
		case w.UserProfileID == nil || *w.UserProfileID != next:
			refs.userProfileID = &next
			w.UserProfileID = &next
		}
	}
	if dto.FirstName != nil {
		w.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		w.LastName = *dto.LastName
	}
	if dto.SecondName != nil {
		w.SecondName = optionalText(dto.SecondName)
	}

	if err := s.checkReferences(ctx, refs, w.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, w); err != nil {
		s.logger.Error("failed to update worker", "error", err, "worker_id", id)
		return nil, internal.NewInternalError("failed to update worker", err)
	}

	return s.GetByID(ctx, w.ID)
}

// Delete removes a worker no task names as assignee or responsible.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrWorkerNotFound) {
			return notFound()
		}
		return internal.NewInternalError("failed to delete worker", err)
	}

	blocked, err := s.repo.HasTasks(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to delete worker", err)
	}
	if blocked {
		return internal.NewValidationFieldError("id", "Cannot delete worker with associated tasks", internal.ErrCodeHasDependents)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete worker", "error", err, "worker_id", id)
		return internal.NewInternalError("failed to delete worker", err)
	}

	s.logger.Info("worker deleted", "worker_id", id)
	return nil
}
