// File: internal/user/service.go
package user

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Service defines profile business operations.
type Service interface {
	shared.ProfileService

	// InitProfile writes the initial profile record for a freshly
	// registered identity: role fixed, everything else empty, completion
	// flag false.
	InitProfile(ctx context.Context, identity shared.Identity, role string) (*shared.Profile, error)

	CompleteStudentProfile(ctx context.Context, id string, req CompleteStudentProfileRequest) (*shared.Profile, error)
	CompleteEmployerProfile(ctx context.Context, id string, req CompleteEmployerProfileRequest) (*shared.Profile, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*shared.Profile, error)
}

type service struct {
	repo    Repository
	watcher *Watcher
	logger  *zap.Logger
}

// NewService creates the profile service. Every successful write is also
// published to the watcher so live subscribers see it.
func NewService(repo Repository, watcher *Watcher, logger *zap.Logger) Service {
	return &service{repo: repo, watcher: watcher, logger: logger}
}

func (s *service) GetProfile(ctx context.Context, id string) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile.ToShared(), nil
}

func (s *service) InitProfile(ctx context.Context, identity shared.Identity, role string) (*shared.Profile, error) {
	if !common.IsValidRole(role) {
		return nil, common.ErrBadRequest.WithDetails("role must be student or employer")
	}

	profile := &Profile{
		ID:                identity.ID,
		Email:             identity.Email,
		Role:              role,
		IsProfileComplete: false,
		Skills:            pq.StringArray{},
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Initial profile created",
		zap.String("profileID", profile.ID), zap.String("role", role))
	snapshot := profile.ToShared()
	s.watcher.Publish(snapshot)
	return snapshot, nil
}

func (s *service) CompleteStudentProfile(ctx context.Context, id string, req CompleteStudentProfileRequest) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Role != common.RoleStudent {
		return nil, common.ErrForbidden.WithDetails("This account is not a student account.")
	}

	profile.FirstName = strings.TrimSpace(req.FirstName)
	profile.LastName = strings.TrimSpace(req.LastName)
	profile.DisplayName = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	profile.Headline = strings.TrimSpace(req.Headline)
	profile.About = strings.TrimSpace(req.About)
	profile.Skills = normalizeSkills(req.Skills)
	profile.IsProfileComplete = true

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Student profile completed", zap.String("profileID", id))
	snapshot := profile.ToShared()
	s.watcher.Publish(snapshot)
	return snapshot, nil
}

func (s *service) CompleteEmployerProfile(ctx context.Context, id string, req CompleteEmployerProfileRequest) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Role != common.RoleEmployer {
		return nil, common.ErrForbidden.WithDetails("This account is not an employer account.")
	}

	profile.CompanyName = strings.TrimSpace(req.CompanyName)
	profile.DisplayName = profile.CompanyName
	profile.Industry = strings.TrimSpace(req.Industry)
	profile.Location = strings.TrimSpace(req.Location)
	profile.About = strings.TrimSpace(req.About)
	profile.IsProfileComplete = true

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Employer profile completed", zap.String("profileID", id))
	snapshot := profile.ToShared()
	s.watcher.Publish(snapshot)
	return snapshot, nil
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.About != nil {
		profile.About = strings.TrimSpace(*req.About)
	}
	if req.Headline != nil {
		profile.Headline = strings.TrimSpace(*req.Headline)
	}
	if req.Skills != nil {
		profile.Skills = normalizeSkills(*req.Skills)
	}
	if req.CompanyName != nil {
		profile.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Industry != nil {
		profile.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Location != nil {
		profile.Location = strings.TrimSpace(*req.Location)
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	snapshot := profile.ToShared()
	s.watcher.Publish(snapshot)
	return snapshot, nil
}

// normalizeSkills trims entries and drops empties while preserving order.
func normalizeSkills(skills []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
