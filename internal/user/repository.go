// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new profile record.
func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return common.ErrConflict.WithDetails("A profile already exists for this account.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a profile by the auth provider UID.
func (r *gormRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

// Update saves an existing profile record.
func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	err := r.db.WithContext(ctx).Save(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Update failed due to a conflict.")
		}
		return err
	}
	return nil
}
