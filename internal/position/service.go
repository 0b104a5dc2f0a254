package position

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
)

var ErrPositionNotFound = errors.New("position not found")

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]datamodel.Position, error)
	GetByID(ctx context.Context, id int64) (*datamodel.Position, error)
	GetDetail(ctx context.Context, id int64) (*datamodel.Position, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	HasWorkers(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, p *datamodel.Position) error
	Update(ctx context.Context, p *datamodel.Position) error
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
	return internal.NewNotFoundError("Position not found", internal.ErrCodePositionNotFound)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]PositionResponse, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list positions", "error", err)
		return nil, internal.NewInternalError("failed to list positions", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*PositionResponse, error) {
	p, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPositionNotFound) {
			return nil, notFound()
		}
		s.logger.Error("failed to get position", "error", err, "position_id", id)
		return nil, internal.NewInternalError("failed to get position", err)
	}
	return FromDataModel(p), nil
}

// checkReferences validates the department reference and the name uniqueness.
func (s *Service) checkReferences(ctx context.Context, name string, departmentID, exceptID int64, checkDepartment, checkName bool) error {
	if checkDepartment {
		exists, err := s.repo.DepartmentExists(ctx, departmentID)
		if err != nil {
			return internal.NewInternalError("failed to check department", err)
		}
		if !exists {
			return internal.NewValidationFieldError("departmentId", "Department not found", internal.ErrCodeInvalidReference)
		}
	}
	if checkName {
		taken, err := s.repo.NameTaken(ctx, name, exceptID)
		if err != nil {
			return internal.NewInternalError("failed to check position name", err)
		}
		if taken {
			return internal.NewValidationFieldError("name", "Position with this name already exists", internal.ErrCodeDuplicateValue)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto CreatePositionDTO) (*PositionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, dto.Name, dto.DepartmentID, 0, true, true); err != nil {
		return nil, err
	}

	p := &datamodel.Position{Name: dto.Name, Description: dto.Description, DepartmentID: dto.DepartmentID}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create position", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create position", err)
	}

	s.logger.Info("position created", "position_id", p.ID, "department_id", p.DepartmentID)
	return s.GetByID(ctx, p.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdatePositionDTO) (*PositionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPositionNotFound) {
			return nil, notFound()
		}
		return nil, internal.NewInternalError("failed to update position", err)
	}

	departmentChanged := dto.DepartmentID != nil && *dto.DepartmentID != p.DepartmentID
	nameChanged := dto.Name != nil && *dto.Name != p.Name
	if departmentChanged {
		p.DepartmentID = *dto.DepartmentID
	}
	if nameChanged {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}

	if err := s.checkReferences(ctx, p.Name, p.DepartmentID, p.ID, departmentChanged, nameChanged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update position", "error", err, "position_id", id)
		return nil, internal.NewInternalError("failed to update position", err)
	}

	return s.GetByID(ctx, p.ID)
}

// Delete removes a position no worker holds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrPositionNotFound) {
			return notFound()
		}
		return internal.NewInternalError("failed to delete position", err)
	}

	blocked, err := s.repo.HasWorkers(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to delete position", err)
	}
	if blocked {
		return internal.NewValidationFieldError("id", "Cannot delete position with associated workers", internal.ErrCodeHasDependents)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete position", "error", err, "position_id", id)
		return internal.NewInternalError("failed to delete position", err)
	}

	s.logger.Info("position deleted", "position_id", id)
	return nil
}
