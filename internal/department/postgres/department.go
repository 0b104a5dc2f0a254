package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/department"
	"gorm.io/gorm"
)

// DepartmentRepository implements department.RepositoryAPI using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func byName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}

// List returns departments ordered by name, each with its positions and their workers.
func (r *DepartmentRepository) List(ctx context.Context, search string) ([]datamodel.Department, error) {
	q := r.db.WithContext(ctx).
		Preload("Positions", byName).
		Preload("Positions.Workers")
	if search != "" {
		like := pagination.Like(search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var rows []datamodel.Department
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*datamodel.Department, error) {
	var d datamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetDetail loads positions with their workers and workers with their position.
func (r *DepartmentRepository) GetDetail(ctx context.Context, id int64) (*datamodel.Department, error) {
	var d datamodel.Department
	err := r.db.WithContext(ctx).
		Preload("Positions", byName).
		Preload("Positions.Workers").
		Preload("Workers.Position").
		Where("id = ?", id).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.Department{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *DepartmentRepository) HasDependents(ctx context.Context, id int64) (bool, error) {
	var workers, positions int64
	if err := r.db.WithContext(ctx).Model(&datamodel.Worker{}).Where("department_id = ?", id).Count(&workers).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&datamodel.Position{}).Where("department_id = ?", id).Count(&positions).Error; err != nil {
		return false, err
	}
	return workers+positions > 0, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *datamodel.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, d *datamodel.Department) error {
	return r.db.WithContext(ctx).
		Model(d).
		Select("name", "description", "updated_at").
		Updates(d).Error
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&datamodel.Department{}, id).Error
}
