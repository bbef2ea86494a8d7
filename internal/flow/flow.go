// File: internal/flow/flow.go
// Package flow decides which screen flow a client should render for a given
// session snapshot. The decision is a pure function; all state lives in the
// session package and the sequencer simply re-evaluates on every change.
package flow

import (
	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Flow identifies one of the mutually exclusive screen flows.
type Flow string

const (
	Splash                  Flow = "splash"
	Login                   Flow = "login"
	CompleteStudentProfile  Flow = "complete_student_profile"
	CompleteEmployerProfile Flow = "complete_employer_profile"
	StudentHome             Flow = "student_home"
	EmployerHome            Flow = "employer_home"
)

// State is the session snapshot the sequencer evaluates. Identity is nil when
// nobody is signed in; Profile is nil until the first profile snapshot for the
// current identity has arrived or when the record does not exist yet.
type State struct {
	Loading  bool            `json:"loading"`
	Identity *shared.Identity `json:"identity,omitempty"`
	Profile  *shared.Profile  `json:"profile,omitempty"`
}

// Select maps a session snapshot to exactly one flow. The conditions are
// evaluated strictly top to bottom: the verification gate wins over the
// profile-completion gate, which wins over role routing. A missing profile
// record counts as an incomplete student profile, since every account is
// created with a profile and the student path is the safe default.
func Select(s State) Flow {
	if s.Loading {
		return Splash
	}
	if s.Identity == nil || !s.Identity.EmailVerified {
		return Login
	}

	role := common.RoleStudent
	complete := false
	if s.Profile != nil {
		role = s.Profile.Role
		complete = s.Profile.IsProfileComplete
	}

	if !complete {
		if role == common.RoleEmployer {
			return CompleteEmployerProfile
		}
		return CompleteStudentProfile
	}
	if role == common.RoleEmployer {
		return EmployerHome
	}
	return StudentHome
}
