// File: internal/application/service_test.go
package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/job"
	"github.com/Agnesa14/SkillCast/internal/notification"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

type mockAppRepository struct {
	mock.Mock
}

func (m *mockAppRepository) Create(ctx context.Context, application *Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *mockAppRepository) FindByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Application), args.Error(1)
}

func (m *mockAppRepository) HasApplied(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error) {
	args := m.Called(ctx, jobID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppRepository) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]Application, *common.Pagination, error) {
	args := m.Called(ctx, studentID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Application), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *mockAppRepository) ListByJob(ctx context.Context, jobID uuid.UUID, page, pageSize int) ([]Application, *common.Pagination, error) {
	args := m.Called(ctx, jobID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Application), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *mockAppRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockAppRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAppRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

type mockJobDirectory struct {
	mock.Mock
}

func (m *mockJobDirectory) GetJobByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) GetProfile(ctx context.Context, id string) (*shared.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID, notificationType, message string, referenceID *uuid.UUID) error {
	return m.Called(ctx, userID, notificationType, message, referenceID).Error(0)
}

func activePosting(jobID uuid.UUID) *job.Job {
	return &job.Job{
		BaseModel:  common.BaseModel{ID: jobID},
		EmployerID: "emp-1",
		Title:      "Backend Intern",
		IsActive:   true,
	}
}

func newAppTestService(repo Repository, jobs JobDirectory, profiles shared.ProfileService, notifier Notifier) Service {
	return NewService(repo, jobs, profiles, notifier, logger.NewDefaultLogger())
}

func TestSubmit(t *testing.T) {
	jobID := uuid.New()
	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(activePosting(jobID), nil)

	repo := new(mockAppRepository)
	repo.On("HasApplied", mock.Anything, jobID, "stu-1").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Application) bool {
		return a.JobID == jobID && a.StudentID == "stu-1" &&
			a.EmployerID == "emp-1" && a.Status == StatusPending
	})).Return(nil)

	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, "emp-1", notification.TypeNewApplicant, mock.Anything, mock.Anything).Return(nil)

	svc := newAppTestService(repo, jobs, new(mockProfiles), notifier)
	app, err := svc.Submit(context.Background(), "stu-1", SubmitRequest{JobID: jobID, CoverLetter: "hi"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	assert.False(t, app.AppliedAt.IsZero())
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmitRejectsInactivePosting(t *testing.T) {
	jobID := uuid.New()
	posting := activePosting(jobID)
	posting.IsActive = false

	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(posting, nil)

	repo := new(mockAppRepository)
	svc := newAppTestService(repo, jobs, new(mockProfiles), nil)

	_, err := svc.Submit(context.Background(), "stu-1", SubmitRequest{JobID: jobID})
	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitRejectsOwnPosting(t *testing.T) {
	jobID := uuid.New()
	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(activePosting(jobID), nil)

	svc := newAppTestService(new(mockAppRepository), jobs, new(mockProfiles), nil)
	_, err := svc.Submit(context.Background(), "emp-1", SubmitRequest{JobID: jobID})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	jobID := uuid.New()
	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(activePosting(jobID), nil)

	repo := new(mockAppRepository)
	repo.On("HasApplied", mock.Anything, jobID, "stu-1").Return(true, nil)

	svc := newAppTestService(repo, jobs, new(mockProfiles), nil)
	_, err := svc.Submit(context.Background(), "stu-1", SubmitRequest{JobID: jobID})
	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitNotificationFailureDoesNotFailSubmission(t *testing.T) {
	jobID := uuid.New()
	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(activePosting(jobID), nil)

	repo := new(mockAppRepository)
	repo.On("HasApplied", mock.Anything, jobID, "stu-1").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(common.ErrServiceUnavailable)

	svc := newAppTestService(repo, jobs, new(mockProfiles), notifier)
	_, err := svc.Submit(context.Background(), "stu-1", SubmitRequest{JobID: jobID})
	assert.NoError(t, err)
}

func TestUpdateStatusChecksOwnership(t *testing.T) {
	appID := uuid.New()
	repo := new(mockAppRepository)
	repo.On("FindByID", mock.Anything, appID).
		Return(&Application{BaseModel: common.BaseModel{ID: appID}, EmployerID: "emp-1", StudentID: "stu-1"}, nil)

	svc := newAppTestService(repo, new(mockJobDirectory), new(mockProfiles), nil)
	_, err := svc.UpdateStatus(context.Background(), appID, "emp-2", StatusAccepted)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

// Status transitions are unrestricted: accepted may go back to pending.
func TestUpdateStatusAllowsAnyTransition(t *testing.T) {
	appID := uuid.New()
	repo := new(mockAppRepository)
	repo.On("FindByID", mock.Anything, appID).
		Return(&Application{BaseModel: common.BaseModel{ID: appID}, EmployerID: "emp-1", StudentID: "stu-1", Status: StatusAccepted}, nil)
	repo.On("UpdateStatus", mock.Anything, appID, StatusPending).Return(nil)

	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, "stu-1", notification.TypeApplicationStatus, mock.Anything, mock.Anything).Return(nil)

	svc := newAppTestService(repo, new(mockJobDirectory), new(mockProfiles), notifier)
	app, err := svc.UpdateStatus(context.Background(), appID, "emp-1", StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
}

func TestWithdrawOnlyWhilePending(t *testing.T) {
	appID := uuid.New()
	repo := new(mockAppRepository)
	repo.On("FindByID", mock.Anything, appID).
		Return(&Application{BaseModel: common.BaseModel{ID: appID}, StudentID: "stu-1", Status: StatusAccepted}, nil)

	svc := newAppTestService(repo, new(mockJobDirectory), new(mockProfiles), nil)
	err := svc.Withdraw(context.Background(), appID, "stu-1")
	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWithdraw(t *testing.T) {
	appID := uuid.New()
	repo := new(mockAppRepository)
	repo.On("FindByID", mock.Anything, appID).
		Return(&Application{BaseModel: common.BaseModel{ID: appID}, StudentID: "stu-1", Status: StatusPending}, nil)
	repo.On("Delete", mock.Anything, appID).Return(nil)

	svc := newAppTestService(repo, new(mockJobDirectory), new(mockProfiles), nil)
	require.NoError(t, svc.Withdraw(context.Background(), appID, "stu-1"))

	// Someone else's application cannot be withdrawn.
	err := svc.Withdraw(context.Background(), appID, "stu-2")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestListJobApplicantsAttachesProfiles(t *testing.T) {
	jobID := uuid.New()
	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(activePosting(jobID), nil)

	repo := new(mockAppRepository)
	repo.On("ListByJob", mock.Anything, jobID, 1, 20).Return([]Application{
		{BaseModel: common.BaseModel{ID: uuid.New()}, JobID: jobID, StudentID: "stu-1", EmployerID: "emp-1"},
	}, common.NewPagination(1, 1, 20), nil)

	profiles := new(mockProfiles)
	profiles.On("GetProfile", mock.Anything, "stu-1").
		Return(&shared.Profile{ID: "stu-1", DisplayName: "Agnesa Berisha"}, nil)

	svc := newAppTestService(repo, jobs, profiles, nil)
	responses, _, err := svc.ListJobApplicants(context.Background(), jobID, "emp-1", 1, 20)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Student)
	assert.Equal(t, "Agnesa Berisha", responses[0].Student.DisplayName)
}

func TestListJobApplicantsChecksOwnership(t *testing.T) {
	jobID := uuid.New()
	jobs := new(mockJobDirectory)
	jobs.On("GetJobByID", mock.Anything, jobID).Return(activePosting(jobID), nil)

	svc := newAppTestService(new(mockAppRepository), jobs, new(mockProfiles), nil)
	_, _, err := svc.ListJobApplicants(context.Background(), jobID, "emp-2", 1, 20)
	assert.ErrorIs(t, err, common.ErrForbidden)
}
