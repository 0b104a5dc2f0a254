package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/position"
	"gorm.io/gorm"
)

// PositionRepository implements position.RepositoryAPI using GORM
type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) List(ctx context.Context, filter position.ListFilter) ([]datamodel.Position, error) {
	q := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Workers")
	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Search != "" {
		like := pagination.Like(filter.Search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var rows []datamodel.Position
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*datamodel.Position, error) {
	var p datamodel.Position
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, position.ErrPositionNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetDetail loads the department and the workers, each with their department.
func (r *PositionRepository) GetDetail(ctx context.Context, id int64) (*datamodel.Position, error) {
	var p datamodel.Position
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Workers.Department").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, position.ErrPositionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PositionRepository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&datamodel.Department{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PositionRepository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.Position{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *PositionRepository) HasWorkers(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&datamodel.Worker{}).Where("position_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PositionRepository) Create(ctx context.Context, p *datamodel.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PositionRepository) Update(ctx context.Context, p *datamodel.Position) error {
	return r.db.WithContext(ctx).
		Model(p).
		Select("name", "description", "department_id", "updated_at").
		Updates(p).Error
}

func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&datamodel.Position{}, id).Error
}
