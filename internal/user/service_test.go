// File: internal/user/service_test.go
package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, profile *Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, profile *Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func newTestService(repo Repository) (Service, *Watcher) {
	log := logger.NewDefaultLogger()
	watcher := NewWatcher(repo, log)
	return NewService(repo, watcher, log), watcher
}

func TestInitProfile(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.ID == "uid-1" && p.Role == common.RoleStudent && !p.IsProfileComplete
	})).Return(nil)

	svc, _ := newTestService(repo)
	identity := shared.Identity{ID: "uid-1", Email: "s@umib.net"}

	profile, err := svc.InitProfile(context.Background(), identity, common.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", profile.ID)
	assert.False(t, profile.IsProfileComplete)
	assert.Empty(t, profile.DisplayName)
	repo.AssertExpectations(t)
}

func TestInitProfileRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(new(mockRepository))
	_, err := svc.InitProfile(context.Background(), shared.Identity{ID: "uid-1"}, "admin")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestCompleteStudentProfile(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-1").
		Return(&Profile{ID: "uid-1", Email: "s@umib.net", Role: common.RoleStudent}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.IsProfileComplete && p.DisplayName == "Agnesa Berisha" && len(p.Skills) == 2
	})).Return(nil)

	svc, watcher := newTestService(repo)

	// Subscribe first so the completion snapshot is observed live.
	snapshots, cancel, err := watcher.WatchProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	defer cancel()
	initial := <-snapshots
	assert.False(t, initial.IsProfileComplete)

	profile, err := svc.CompleteStudentProfile(context.Background(), "uid-1", CompleteStudentProfileRequest{
		FirstName: "Agnesa",
		LastName:  "Berisha",
		Skills:    []string{"Go", " SQL ", ""},
	})
	require.NoError(t, err)
	assert.True(t, profile.IsProfileComplete)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)

	live := <-snapshots
	assert.True(t, live.IsProfileComplete)
	repo.AssertExpectations(t)
}

func TestCompleteStudentProfileRejectsEmployer(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-2").
		Return(&Profile{ID: "uid-2", Role: common.RoleEmployer}, nil)

	svc, _ := newTestService(repo)
	_, err := svc.CompleteStudentProfile(context.Background(), "uid-2", CompleteStudentProfileRequest{
		FirstName: "A", LastName: "B", Skills: []string{"Go"},
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestCompleteEmployerProfile(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-2").
		Return(&Profile{ID: "uid-2", Email: "hr@acme.com", Role: common.RoleEmployer}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.IsProfileComplete && p.DisplayName == "Acme" && p.Industry == "Manufacturing"
	})).Return(nil)

	svc, _ := newTestService(repo)
	profile, err := svc.CompleteEmployerProfile(context.Background(), "uid-2", CompleteEmployerProfileRequest{
		CompanyName: "Acme",
		Industry:    "Manufacturing",
	})
	require.NoError(t, err)
	assert.True(t, profile.IsProfileComplete)
	assert.Equal(t, "Acme", profile.CompanyName)
	repo.AssertExpectations(t)
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-1").
		Return(&Profile{ID: "uid-1", Role: common.RoleStudent, IsProfileComplete: true, About: "old", Headline: "keep"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.About == "new" && p.Headline == "keep" && p.IsProfileComplete
	})).Return(nil)

	svc, _ := newTestService(repo)
	about := "new"
	profile, err := svc.UpdateProfile(context.Background(), "uid-1", UpdateProfileRequest{About: &about})
	require.NoError(t, err)
	assert.Equal(t, "new", profile.About)
	assert.Equal(t, "keep", profile.Headline)
	repo.AssertExpectations(t)
}
