package department

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
)

var ErrDepartmentNotFound = errors.New("department not found")

type RepositoryAPI interface {
	List(ctx context.Context, search string) ([]datamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*datamodel.Department, error)
	GetDetail(ctx context.Context, id int64) (*datamodel.Department, error)
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	HasDependents(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, d *datamodel.Department) error
	Update(ctx context.Context, d *datamodel.Department) error
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
	return internal.NewNotFoundError("Department not found", internal.ErrCodeDepartmentNotFound)
}

func duplicateName() *internal.AppError {
	return internal.NewValidationFieldError("name", "Department with this name already exists", internal.ErrCodeDuplicateValue)
}

func (s *Service) List(ctx context.Context, search string) ([]DepartmentResponse, error) {
	rows, err := s.repo.List(ctx, search)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*DepartmentResponse, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return nil, notFound()
		}
		s.logger.Error("failed to get department", "error", err, "department_id", id)
		return nil, internal.NewInternalError("failed to get department", err)
	}
	return FromDataModel(d), nil
}

func (s *Service) Create(ctx context.Context, dto CreateDepartmentDTO) (*DepartmentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.NameTaken(ctx, dto.Name, 0)
	if err != nil {
		return nil, internal.NewInternalError("failed to create department", err)
	}
	if taken {
		return nil, duplicateName()
	}

	d := &datamodel.Department{Name: dto.Name, Description: dto.Description}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", d.ID)
	return s.GetByID(ctx, d.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateDepartmentDTO) (*DepartmentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return nil, notFound()
		}
		return nil, internal.NewInternalError("failed to update department", err)
	}

	if dto.Name != nil && *dto.Name != d.Name {
		taken, err := s.repo.NameTaken(ctx, *dto.Name, d.ID)
		if err != nil {
			return nil, internal.NewInternalError("failed to update department", err)
		}
		if taken {
			return nil, duplicateName()
		}
		d.Name = *dto.Name
	}
	if dto.Description != nil {
		d.Description = *dto.Description
	}

	if err := s.repo.Update(ctx, d); err != nil {
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return nil, internal.NewInternalError("failed to update department", err)
	}

	return s.GetByID(ctx, d.ID)
}

// Delete removes a department that no position or worker references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return notFound()
		}
		return internal.NewInternalError("failed to delete department", err)
	}

	blocked, err := s.repo.HasDependents(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to delete department", err)
	}
	if blocked {
		return internal.NewValidationFieldError("id", "Cannot delete department with associated workers or positions", internal.ErrCodeHasDependents)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete department", "error", err, "department_id", id)
		return internal.NewInternalError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}
