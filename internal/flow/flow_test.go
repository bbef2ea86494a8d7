// File: internal/flow/flow_test.go
package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

func verifiedIdentity() *shared.Identity {
	return &shared.Identity{ID: "uid-1", Email: "user@umib.net", EmailVerified: true}
}

func unverifiedIdentity() *shared.Identity {
	return &shared.Identity{ID: "uid-1", Email: "user@umib.net", EmailVerified: false}
}

func profile(role string, complete bool) *shared.Profile {
	return &shared.Profile{ID: "uid-1", Role: role, IsProfileComplete: complete}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Flow
	}{
		{
			name:  "loading wins over everything",
			state: State{Loading: true},
			want:  Splash,
		},
		{
			name: "loading wins even with a signed-in verified identity",
			state: State{
				Loading:  true,
				Identity: verifiedIdentity(),
				Profile:  profile(common.RoleStudent, true),
			},
			want: Splash,
		},
		{
			name:  "no identity yields login",
			state: State{},
			want:  Login,
		},
		{
			name: "unverified identity yields login even with complete profile",
			state: State{
				Identity: unverifiedIdentity(),
				Profile:  profile(common.RoleEmployer, true),
			},
			want: Login,
		},
		{
			name: "incomplete student profile",
			state: State{
				Identity: verifiedIdentity(),
				Profile:  profile(common.RoleStudent, false),
			},
			want: CompleteStudentProfile,
		},
		{
			name: "incomplete employer profile",
			state: State{
				Identity: verifiedIdentity(),
				Profile:  profile(common.RoleEmployer, false),
			},
			want: CompleteEmployerProfile,
		},
		{
			name: "missing profile defaults to the student completion path",
			state: State{
				Identity: verifiedIdentity(),
			},
			want: CompleteStudentProfile,
		},
		{
			name: "complete student profile",
			state: State{
				Identity: verifiedIdentity(),
				Profile:  profile(common.RoleStudent, true),
			},
			want: StudentHome,
		},
		{
			name: "complete employer profile",
			state: State{
				Identity: verifiedIdentity(),
				Profile:  profile(common.RoleEmployer, true),
			},
			want: EmployerHome,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Select(tc.state))
		})
	}
}

// Flipping IsProfileComplete with no other field changed must move the user
// from the completion flow straight to the matching home flow.
func TestSelectCompletionFlip(t *testing.T) {
	for _, role := range []string{common.RoleStudent, common.RoleEmployer} {
		t.Run(role, func(t *testing.T) {
			state := State{Identity: verifiedIdentity(), Profile: profile(role, false)}

			before := Select(state)
			state.Profile.IsProfileComplete = true
			after := Select(state)

			if role == common.RoleEmployer {
				assert.Equal(t, CompleteEmployerProfile, before)
				assert.Equal(t, EmployerHome, after)
			} else {
				assert.Equal(t, CompleteStudentProfile, before)
				assert.Equal(t, StudentHome, after)
			}
		})
	}
}

// Every combination of the four inputs maps to exactly one flow; the function
// is total and never panics.
func TestSelectIsTotal(t *testing.T) {
	identities := []*shared.Identity{nil, unverifiedIdentity(), verifiedIdentity()}
	profiles := []*shared.Profile{
		nil,
		profile(common.RoleStudent, false),
		profile(common.RoleStudent, true),
		profile(common.RoleEmployer, false),
		profile(common.RoleEmployer, true),
		profile("", false),
	}
	known := map[Flow]bool{
		Splash: true, Login: true,
		CompleteStudentProfile: true, CompleteEmployerProfile: true,
		StudentHome: true, EmployerHome: true,
	}

	for _, loading := range []bool{true, false} {
		for _, id := range identities {
			for _, p := range profiles {
				got := Select(State{Loading: loading, Identity: id, Profile: p})
				assert.True(t, known[got], "unknown flow %q", got)
			}
		}
	}
}
