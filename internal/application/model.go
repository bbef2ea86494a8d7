// File: internal/application/model.go
package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/job"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Status is an application's lifecycle state. Transitions are not enforced
// as a state machine: employers may move an application between any of these
// at any time, which lets them reconsider a decision.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsValidStatus reports whether s is a known application status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application is a student's application to a posting. EmployerID is
// denormalized from the posting so employer-side queries need no join.
// There is intentionally no unique constraint on (job_id, student_id); the
// duplicate check before submission is best effort only.
type Application struct {
	common.BaseModel
	JobID       uuid.UUID `gorm:"type:uuid;not null;index:idx_applications_job_student"`
	StudentID   string    `gorm:"type:varchar(128);not null;index:idx_applications_job_student"`
	EmployerID  string    `gorm:"type:varchar(128);not null;index"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'pending'"`
	CoverLetter string    `gorm:"type:text"`
	AppliedAt   time.Time `gorm:"not null"`

	Job *job.Job `gorm:"foreignKey:JobID"`
}

// TableName specifies the table name for the Application model.
func (Application) TableName() string {
	return "applications"
}

// --- DTOs ---

// SubmitRequest is the payload for applying to a posting.
type SubmitRequest struct {
	JobID       uuid.UUID `json:"job_id" binding:"required"`
	CoverLetter string    `json:"cover_letter" binding:"omitempty,max=5000"`
}

// UpdateStatusRequest is the employer's decision payload.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending accepted rejected"`
}

// Response is the API shape for an application. Job is attached on
// student-facing lists; Student on employer-facing ones.
type Response struct {
	ID          uuid.UUID       `json:"id"`
	JobID       uuid.UUID       `json:"job_id"`
	StudentID   string          `json:"student_id"`
	EmployerID  string          `json:"employer_id"`
	Status      Status          `json:"status"`
	CoverLetter string          `json:"cover_letter,omitempty"`
	AppliedAt   time.Time       `json:"applied_at"`
	Job         *job.JobResponse `json:"job,omitempty"`
	Student     *shared.Profile  `json:"student,omitempty"`
}

// ToResponse converts an Application to its API shape.
func ToResponse(a *Application) Response {
	resp := Response{
		ID:          a.ID,
		JobID:       a.JobID,
		StudentID:   a.StudentID,
		EmployerID:  a.EmployerID,
		Status:      a.Status,
		CoverLetter: a.CoverLetter,
		AppliedAt:   a.AppliedAt,
	}
	if a.Job != nil {
		jobResp := job.ToJobResponse(a.Job)
		resp.Job = &jobResp
	}
	return resp
}
