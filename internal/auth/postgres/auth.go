package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-tracker/internal/auth"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*datamodel.UserProfile, error) {
	var u datamodel.UserProfile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*datamodel.UserProfile, error) {
	var u datamodel.UserProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetProfile loads the user with its worker record, department and position.
func (r *Repository) GetProfile(ctx context.Context, id string) (*datamodel.UserProfile, error) {
	var u datamodel.UserProfile
	err := r.db.WithContext(ctx).
		Preload("Worker.Department").
		Preload("Worker.Position").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) EmailTaken(ctx context.Context, email string, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&datamodel.UserProfile{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, u *datamodel.UserProfile) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) Update(ctx context.Context, u *datamodel.UserProfile) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("email", "full_name", "first_name", "last_name", "second_name", "password_hash", "updated_at").
		Updates(u).Error
}
