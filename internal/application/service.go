// File: internal/application/service.go
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/job"
	"github.com/Agnesa14/SkillCast/internal/notification"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Notifier delivers an in-app notification to a user. Implemented by the
// notification service; nil-safe via the service's own guard.
type Notifier interface {
	Notify(ctx context.Context, userID, notificationType, message string, referenceID *uuid.UUID) error
}

// JobDirectory is the slice of the job service this package depends on.
type JobDirectory interface {
	GetJobByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

// Service defines the interface for application business logic.
type Service interface {
	// Submit creates an application after the best-effort duplicate check.
	// The check and the insert are not atomic; a race between two
	// submissions for the same pair can produce duplicate records.
	Submit(ctx context.Context, studentID string, req SubmitRequest) (*Application, error)

	// HasApplied backs the apply-button gate on the posting screen.
	HasApplied(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error)

	ListStudentApplications(ctx context.Context, studentID string, page, pageSize int) ([]Response, *common.Pagination, error)
	ListJobApplicants(ctx context.Context, jobID uuid.UUID, employerID string, page, pageSize int) ([]Response, *common.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, employerID string, status Status) (*Application, error)
	Withdraw(ctx context.Context, id uuid.UUID, studentID string) error
}

type service struct {
	repo     Repository
	jobs     JobDirectory
	profiles shared.ProfileService
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new application service.
func NewService(repo Repository, jobs JobDirectory, profiles shared.ProfileService, notifier Notifier, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		jobs:     jobs,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *service) Submit(ctx context.Context, studentID string, req SubmitRequest) (*Application, error) {
	posting, err := s.jobs.GetJobByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !posting.IsActive {
		return nil, common.ErrConflict.WithDetails("This posting is no longer accepting applications.")
	}
	if posting.EmployerID == studentID {
		return nil, common.ErrForbidden.WithDetails("You cannot apply to your own posting.")
	}

	applied, err := s.repo.HasApplied(ctx, req.JobID, studentID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, common.ErrConflict.WithDetails("You have already applied to this posting.")
	}

	application := &Application{
		JobID:       req.JobID,
		StudentID:   studentID,
		EmployerID:  posting.EmployerID,
		Status:      StatusPending,
		CoverLetter: req.CoverLetter,
		AppliedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, application); err != nil {
		s.logger.Error("Failed to create application",
			zap.Error(err), zap.String("jobID", req.JobID.String()), zap.String("studentID", studentID))
		return nil, err
	}

	s.logger.Info("Application submitted",
		zap.String("applicationID", application.ID.String()),
		zap.String("jobID", req.JobID.String()),
		zap.String("studentID", studentID))

	s.notifyQuietly(ctx, posting.EmployerID, notification.TypeNewApplicant,
		fmt.Sprintf("New application for %q.", posting.Title), &application.ID)
	return application, nil
}

func (s *service) HasApplied(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error) {
	return s.repo.HasApplied(ctx, jobID, studentID)
}

func (s *service) ListStudentApplications(ctx context.Context, studentID string, page, pageSize int) ([]Response, *common.Pagination, error) {
	applications, pagination, err := s.repo.ListByStudent(ctx, studentID, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]Response, 0, len(applications))
	for i := range applications {
		responses = append(responses, ToResponse(&applications[i]))
	}
	return responses, pagination, nil
}

// ListJobApplicants lists the applications for one of the employer's own
// postings, each with the applicant's profile attached.
func (s *service) ListJobApplicants(ctx context.Context, jobID uuid.UUID, employerID string, page, pageSize int) ([]Response, *common.Pagination, error) {
	posting, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if posting.EmployerID != employerID {
		return nil, nil, common.ErrForbidden.WithDetails("You do not own this posting.")
	}

	applications, pagination, err := s.repo.ListByJob(ctx, jobID, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]Response, 0, len(applications))
	for i := range applications {
		resp := ToResponse(&applications[i])
		profile, err := s.profiles.GetProfile(ctx, applications[i].StudentID)
		if err != nil {
			// An applicant whose profile read fails still shows up in the list.
			s.logger.Warn("Failed to load applicant profile",
				zap.Error(err), zap.String("studentID", applications[i].StudentID))
		} else {
			resp.Student = profile
		}
		responses = append(responses, resp)
	}
	return responses, pagination, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, employerID string, status Status) (*Application, error) {
	if !IsValidStatus(status) {
		return nil, common.ErrBadRequest.WithDetails("Unknown application status.")
	}

	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.EmployerID != employerID {
		return nil, common.ErrForbidden.WithDetails("You do not own the posting for this application.")
	}

	// Any status may replace any other; employers are allowed to reconsider.
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	application.Status = status

	s.logger.Info("Application status updated",
		zap.String("applicationID", id.String()), zap.String("status", string(status)))

	s.notifyQuietly(ctx, application.StudentID, notification.TypeApplicationStatus,
		fmt.Sprintf("Your application status changed to %s.", status), &application.ID)
	return application, nil
}

// Withdraw deletes a student's own application while it is still pending.
func (s *service) Withdraw(ctx context.Context, id uuid.UUID, studentID string) error {
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if application.StudentID != studentID {
		return common.ErrForbidden.WithDetails("This application is not yours.")
	}
	if application.Status != StatusPending {
		return common.ErrConflict.WithDetails("Only pending applications can be withdrawn.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Application withdrawn",
		zap.String("applicationID", id.String()), zap.String("studentID", studentID))
	return nil
}

// notifyQuietly sends a notification best-effort; delivery failures never
// fail the triggering operation.
func (s *service) notifyQuietly(ctx context.Context, userID, notificationType, message string, referenceID *uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, notificationType, message, referenceID); err != nil {
		s.logger.Warn("Failed to deliver notification",
			zap.Error(err), zap.String("userID", userID), zap.String("type", notificationType))
	}
}
