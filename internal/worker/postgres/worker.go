package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/worker"
	"gorm.io/gorm"
)

// WorkerRepository implements worker.RepositoryAPI using GORM
type WorkerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

func publicProfile(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email", "full_name")
}

func filtered(filter worker.ListFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.DepartmentID != nil {
			db = db.Where("department_id = ?", *filter.DepartmentID)
		}
		if filter.PositionID != nil {
			db = db.Where("position_id = ?", *filter.PositionID)
		}
		if filter.Search != "" {
			like := pagination.Like(filter.Search)
			db = db.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(second_name) LIKE ?)", like, like, like)
		}
		return db
	}
}

func (r *WorkerRepository) List(ctx context.Context, filter worker.ListFilter) ([]datamodel.Worker, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&datamodel.Worker{}).Scopes(filtered(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []datamodel.Worker
	err := r.db.WithContext(ctx).
		Scopes(filtered(filter), pagination.Order(filter.Sort), pagination.Paginate(filter.Page)).
		Preload("Department").
		Preload("Position").
		Preload("UserProfile", publicProfile).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id int64) (*datamodel.Worker, error) {
	var w datamodel.Worker
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worker.ErrWorkerNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetDetail loads the worker with its organisation, profile and both task lists.
func (r *WorkerRepository) GetDetail(ctx context.Context, id int64) (*datamodel.Worker, error) {
	var w datamodel.Worker
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Position").
		Preload("UserProfile", publicProfile).
		Preload("AssignedTasks.Status").
		Preload("AssignedTasks.Priority").
		Preload("ResponsibleTasks.Status").
		Preload("ResponsibleTasks.Priority").
		Where("id = ?", id).
		First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worker.ErrWorkerNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WorkerRepository) exists(ctx context.Context, model interface{}, id interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *WorkerRepository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &datamodel.Department{}, id)
}

func (r *WorkerRepository) PositionExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &datamodel.Position{}, id)
}

func (r *WorkerRepository) UserProfileExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, &datamodel.UserProfile{}, id)
}

func (r *WorkerRepository) UserProfileLinked(ctx context.Context, userProfileID string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.Worker{}).
		Where("user_profile_id = ? AND id <> ?", userProfileID, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *WorkerRepository) HasTasks(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.Task{}).
		Where("assigned_to_id = ? OR responsible_id = ?", id, id).
		Count(&count).Error
	return count > 0, err
}

func (r *WorkerRepository) Create(ctx context.Context, w *datamodel.Worker) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WorkerRepository) Update(ctx context.Context, w *datamodel.Worker) error {
	return r.db.WithContext(ctx).
		Model(w).
		Select("first_name", "last_name", "second_name", "department_id", "position_id", "user_profile_id", "updated_at").
		Updates(w).Error
}

func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&datamodel.Worker{}, id).Error
}
