// File: internal/job/model.go
package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Job is an employer's posting. Postings have a soft lifecycle only: they are
// deactivated, never deleted in-app.
type Job struct {
	common.BaseModel
	EmployerID  string         `gorm:"type:varchar(128);not null;index"`
	Title       string         `gorm:"type:varchar(200);not null"`
	Company     string         `gorm:"type:varchar(150);not null"`
	Description string         `gorm:"type:text;not null"`
	Salary      string         `gorm:"type:varchar(100)"`
	Skills      pq.StringArray `gorm:"type:text[]"`
	Slug        string         `gorm:"type:varchar(250);uniqueIndex;not null"`
	IsActive    bool           `gorm:"not null;default:true;index"`
	ExpiresAt   time.Time      `gorm:"index"`
}

// TableName specifies the table name for the Job model.
func (Job) TableName() string {
	return "jobs"
}

// --- DTOs ---

// CreateJobRequest defines the payload for posting a job.
type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Company     string   `json:"company" binding:"required,max=150"`
	Description string   `json:"description" binding:"required,max=5000"`
	Salary      string   `json:"salary" binding:"omitempty,max=100"`
	Skills      []string `json:"skills" binding:"required,min=1,dive,max=50"`
}

// UpdateJobRequest defines the payload for editing a posting. Nil fields are
// left unchanged.
type UpdateJobRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=200"`
	Company     *string   `json:"company" binding:"omitempty,max=150"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Salary      *string   `json:"salary" binding:"omitempty,max=100"`
	Skills      *[]string `json:"skills" binding:"omitempty,min=1,dive,max=50"`
}

// SearchQuery carries the job browse and search parameters.
type SearchQuery struct {
	SearchTerm      string `form:"q"`
	Skill           string `form:"skill"`
	EmployerID      string `form:"employer_id"`
	IncludeInactive bool   `form:"include_inactive"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

// JobResponse is the API shape for a posting. ApplicantCount is populated on
// employer-facing endpoints only.
type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	EmployerID     string    `json:"employer_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Description    string    `json:"description"`
	Salary         string    `json:"salary,omitempty"`
	Skills         []string  `json:"skills"`
	Slug           string    `json:"slug"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	ApplicantCount *int64    `json:"applicant_count,omitempty"`
}

// ToJobResponse converts a Job model to its API shape.
func ToJobResponse(j *Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Company:     j.Company,
		Description: j.Description,
		Salary:      j.Salary,
		Skills:      []string(j.Skills),
		Slug:        j.Slug,
		IsActive:    j.IsActive,
		CreatedAt:   j.CreatedAt,
		ExpiresAt:   j.ExpiresAt,
	}
}
