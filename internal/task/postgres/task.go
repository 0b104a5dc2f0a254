package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements task.RepositoryAPI using GORM
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func publicProfile(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email", "full_name")
}

func byOrderIndex(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

func filtered(filter task.ListFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.StatusID != nil {
			db = db.Where("status_id = ?", *filter.StatusID)
		}
		if filter.PriorityID != nil {
			db = db.Where("priority_id = ?", *filter.PriorityID)
		}
		if filter.ComplexityID != nil {
			db = db.Where("complexity_id = ?", *filter.ComplexityID)
		}
		if filter.AssignedToID != nil {
			db = db.Where("assigned_to_id = ?", *filter.AssignedToID)
		}
		if filter.ResponsibleID != nil {
			db = db.Where("responsible_id = ?", *filter.ResponsibleID)
		}
		if filter.Search != "" {
			like := pagination.Like(filter.Search)
			db = db.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
		}
		return db
	}
}

func withSummary(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Status").
		Preload("Priority").
		Preload("Complexity").
		Preload("AssignedTo").
		Preload("Responsible").
		Preload("Creator", publicProfile)
}

func (r *TaskRepository) List(ctx context.Context, filter task.ListFilter) ([]datamodel.Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&datamodel.Task{}).Scopes(filtered(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []datamodel.Task
	err := r.db.WithContext(ctx).
		Scopes(filtered(filter), pagination.Order(filter.Sort), pagination.Paginate(filter.Page), withSummary).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*datamodel.Task, error) {
	var t datamodel.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetDetail loads the lookups, both workers with their organisation, the creator and the time entries.
func (r *TaskRepository) GetDetail(ctx context.Context, id string) (*datamodel.Task, error) {
	var t datamodel.Task
	err := r.db.WithContext(ctx).
		Scopes(withSummary).
		Preload("AssignedTo.Department").
		Preload("AssignedTo.Position").
		Preload("Responsible.Department").
		Preload("Responsible.Position").
		Preload("TimeEntries", func(db *gorm.DB) *gorm.DB { return db.Order("start_time DESC") }).
		Preload("TimeEntries.User", publicProfile).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) exists(ctx context.Context, model interface{}, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TaskRepository) StatusExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &datamodel.TaskStatus{}, id)
}

func (r *TaskRepository) PriorityExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &datamodel.TaskPriority{}, id)
}

func (r *TaskRepository) ComplexityExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &datamodel.TaskComplexity{}, id)
}

func (r *TaskRepository) WorkerExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &datamodel.Worker{}, id)
}

func (r *TaskRepository) Create(ctx context.Context, t *datamodel.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepository) Update(ctx context.Context, t *datamodel.Task) error {
	return r.db.WithContext(ctx).
		Model(t).
		Select("name", "description", "complexity_id", "priority_id", "status_id", "start_date", "deadline",
			"assigned_to_id", "responsible_id", "updated_at").
		Updates(t).Error
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, statusID int64) error {
	return r.db.WithContext(ctx).
		Model(&datamodel.Task{ID: id}).
		Update("status_id", statusID).Error
}

// Delete removes the task's time entries and the task in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&datamodel.TimeEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&datamodel.Task{}, "id = ?", id).Error
	})
}

func (r *TaskRepository) ListStatuses(ctx context.Context) ([]datamodel.TaskStatus, error) {
	var rows []datamodel.TaskStatus
	err := r.db.WithContext(ctx).Scopes(byOrderIndex).Find(&rows).Error
	return rows, err
}

func (r *TaskRepository) ListPriorities(ctx context.Context) ([]datamodel.TaskPriority, error) {
	var rows []datamodel.TaskPriority
	err := r.db.WithContext(ctx).Scopes(byOrderIndex).Find(&rows).Error
	return rows, err
}

func (r *TaskRepository) ListComplexities(ctx context.Context) ([]datamodel.TaskComplexity, error) {
	var rows []datamodel.TaskComplexity
	err := r.db.WithContext(ctx).Scopes(byOrderIndex).Find(&rows).Error
	return rows, err
}

// SumDurations adds up the recorded minutes of the task's entries. Running entries count as zero.
func (r *TaskRepository) SumDurations(ctx context.Context, taskID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.TimeEntry{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&total).Error
	return total, err
}

func (r *TaskRepository) SetTimeSpent(ctx context.Context, taskID string, hours float64) error {
	return r.db.WithContext(ctx).
		Model(&datamodel.Task{ID: taskID}).
		Update("time_spent", hours).Error
}
