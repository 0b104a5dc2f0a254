package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-tracker/internal/core/common/pagination"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/timeentry"
	"gorm.io/gorm"
)

// TimeEntryRepository implements timeentry.RepositoryAPI using GORM
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func publicProfile(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email", "full_name")
}

func withTaskAndUser(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Task.Status").
		Preload("Task.Priority").
		Preload("User", publicProfile)
}

// filtered bounds start_time inclusively on each side that is set.
// Bounds are compared in UTC, the zone every entry is stored in.
func filtered(filter timeentry.ListFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.TaskID != "" {
			db = db.Where("task_id = ?", filter.TaskID)
		}
		if filter.UserID != "" {
			db = db.Where("user_profile_id = ?", filter.UserID)
		}
		if filter.StartDate != nil {
			db = db.Where("start_time >= ?", filter.StartDate.UTC())
		}
		if filter.EndDate != nil {
			db = db.Where("start_time <= ?", filter.EndDate.UTC())
		}
		return db
	}
}

func (r *TimeEntryRepository) List(ctx context.Context, filter timeentry.ListFilter) ([]datamodel.TimeEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&datamodel.TimeEntry{}).Scopes(filtered(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []datamodel.TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(filtered(filter), pagination.Order(filter.Sort), pagination.Paginate(filter.Page), withTaskAndUser).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *TimeEntryRepository) find(db *gorm.DB, id string) (*datamodel.TimeEntry, error) {
	var e datamodel.TimeEntry
	err := db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timeentry.ErrTimeEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id string) (*datamodel.TimeEntry, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *TimeEntryRepository) GetDetail(ctx context.Context, id string) (*datamodel.TimeEntry, error) {
	return r.find(r.db.WithContext(ctx).Scopes(withTaskAndUser), id)
}

func (r *TimeEntryRepository) TaskExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&datamodel.Task{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TimeEntryRepository) HasRunning(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.TimeEntry{}).
		Where("user_profile_id = ? AND end_time IS NULL", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *TimeEntryRepository) Create(ctx context.Context, e *datamodel.TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TimeEntryRepository) Update(ctx context.Context, e *datamodel.TimeEntry) error {
	return r.db.WithContext(ctx).
		Model(e).
		Select("start_time", "end_time", "duration", "description", "updated_at").
		Updates(e).Error
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.TimeEntry{}, "id = ?", id).Error
}
