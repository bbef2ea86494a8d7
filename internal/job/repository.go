// File: internal/job/repository.go
package job

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Repository defines the interface for job data operations.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FindBySlug(ctx context.Context, slug string) (*Job, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Search(ctx context.Context, query SearchQuery) ([]Job, *common.Pagination, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	FindAllForSync(ctx context.Context, offset, limit int) ([]Job, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM job repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new posting.
func (r *gormRepository) Create(ctx context.Context, job *Job) error {
	err := r.db.WithContext(ctx).Create(job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A posting with this slug already exists.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a posting by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var job Job
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job posting not found.")
		}
		return nil, err
	}
	return &job, nil
}

// FindBySlug retrieves a posting by its slug.
func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Job, error) {
	var job Job
	err := r.db.WithContext(ctx).First(&job, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job posting not found.")
		}
		return nil, err
	}
	return &job, nil
}

// FindByIDs retrieves postings for a set of IDs, preserving the input order.
// IDs with no matching row are skipped.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var jobs []Job
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	ordered := make([]Job, 0, len(jobs))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			ordered = append(ordered, j)
		}
	}
	return ordered, nil
}

// Update saves an existing posting.
func (r *gormRepository) Update(ctx context.Context, job *Job) error {
	err := r.db.WithContext(ctx).Save(job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A posting with this slug already exists.")
		}
		return err
	}
	return nil
}

// Search retrieves postings matching the query, newest first. Active postings
// only unless the caller explicitly asks otherwise.
func (r *gormRepository) Search(ctx context.Context, query SearchQuery) ([]Job, *common.Pagination, error) {
	var jobs []Job
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Job{})

	if query.SearchTerm != "" {
		term := "%" + strings.ToLower(query.SearchTerm) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(jobs.title) LIKE ? OR LOWER(jobs.company) LIKE ? OR LOWER(jobs.description) LIKE ?",
			term, term, term,
		)
	}
	if query.Skill != "" {
		dbQuery = dbQuery.Where("? = ANY(jobs.skills)", query.Skill)
	}
	if query.EmployerID != "" {
		dbQuery = dbQuery.Where("jobs.employer_id = ?", query.EmployerID)
	}
	if !query.IncludeInactive {
		dbQuery = dbQuery.Where("jobs.is_active = ?", true)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, err
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	err := dbQuery.
		Order("jobs.created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PageSize).
		Limit(pagination.PageSize).
		Find(&jobs).Error
	if err != nil {
		return nil, nil, err
	}
	return jobs, pagination, nil
}

// DeactivateExpired flips is_active off for every posting past its expiry.
// Returns the number of postings deactivated.
func (r *gormRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Job{}).
		Where("is_active = ? AND expires_at <= ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// FindAllForSync pages through every posting for the search index sync.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
