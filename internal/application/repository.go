// File: internal/application/repository.go
package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Repository defines the interface for application data operations.
type Repository interface {
	Create(ctx context.Context, application *Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*Application, error)
	HasApplied(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]Application, *common.Pagination, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, page, pageSize int) ([]Application, *common.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM application repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new application record.
func (r *gormRepository) Create(ctx context.Context, application *Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// FindByID retrieves an application by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	var application Application
	err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Application not found.")
		}
		return nil, err
	}
	return &application, nil
}

// HasApplied reports whether the student already has an application for the
// posting. This is a plain count, not a lock; two concurrent submissions can
// both observe false.
func (r *gormRepository) HasApplied(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Application{}).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		Count(&count).Error
	return count > 0, err
}

// ListByStudent retrieves a student's applications, newest first, with the
// posting attached.
func (r *gormRepository) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]Application, *common.Pagination, error) {
	var applications []Application
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Application{}).Where("student_id = ?", studentID)
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, err
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	err := dbQuery.
		Preload("Job").
		Order("applied_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PageSize).
		Limit(pagination.PageSize).
		Find(&applications).Error
	if err != nil {
		return nil, nil, err
	}
	return applications, pagination, nil
}

// ListByJob retrieves the applications for one posting, newest first.
func (r *gormRepository) ListByJob(ctx context.Context, jobID uuid.UUID, page, pageSize int) ([]Application, *common.Pagination, error) {
	var applications []Application
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Application{}).Where("job_id = ?", jobID)
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, err
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	err := dbQuery.
		Order("applied_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PageSize).
		Limit(pagination.PageSize).
		Find(&applications).Error
	if err != nil {
		return nil, nil, err
	}
	return applications, pagination, nil
}

// UpdateStatus sets an application's status.
func (r *gormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).Model(&Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Application not found.")
	}
	return nil
}

// Delete removes an application record.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Application{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Application not found or already withdrawn.")
	}
	return nil
}

// CountByJob counts the applications for one posting.
func (r *gormRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Application{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}
